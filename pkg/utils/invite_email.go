package utils

import (
	"fmt"
	"time"
)

func SendInviteEmail(to, senderName, inviteURL string, expiresAt time.Time) error {
	subject := fmt.Sprintf("%s convidou você para um grupo compartilhado no CoFi", senderName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="pt-BR">
	<head>
	<meta charset="UTF-8" />
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f5f7f6;
			margin: 0;
			padding: 0;
			color: #333333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #0a4d3c;
		}
		.header {
			background-color: #0a4d3c;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.content {
			padding: 20px 18px;
			font-size: 14px;
		}
		.button {
			display: inline-block;
			background-color: #0a4d3c;
			color: #ffffff !important;
			padding: 10px 22px;
			border-radius: 6px;
			text-decoration: none;
			font-weight: 600;
			margin: 14px 0;
		}
		.footer {
			font-size: 11px;
			color: #888888;
			text-align: center;
			padding: 12px;
		}
	</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>Convite para grupo compartilhado</h1></div>
			<div class="content">
				<p>Olá,</p>
				<p><strong>%s</strong> convidou você para dividir despesas em um grupo compartilhado no CoFi.</p>
				<p><a class="button" href="%s">Responder convite</a></p>
				<p>Este convite expira em <strong>%s</strong>.</p>
			</div>
			<div class="footer">CoFi — finanças compartilhadas sem atrito.</div>
		</div>
	</body>
	</html>`, senderName, inviteURL, expiresAt.Format("02/01/2006 15:04"))

	return SendEmail(to, subject, body)
}
