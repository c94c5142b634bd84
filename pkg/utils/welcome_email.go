package utils

import "fmt"

func SendWelcomeEmail(to, name string) error {
	subject := "Bem-vindo(a) ao CoFi!"

	body := fmt.Sprintf(`
	<html>
	<body style="font-family: 'Segoe UI', Roboto, Arial, sans-serif; color: #333333;">
		<h2 style="color: #0a4d3c;">Olá, %s!</h2>
		<p>Sua conta no CoFi foi criada com sucesso.</p>
		<p>Registre suas receitas e despesas, convide seu parceiro(a) para um
		grupo compartilhado e deixe o CoFi cuidar da divisão e do acerto das contas.</p>
		<p style="color: #888888; font-size: 12px;">Se você não criou esta conta, ignore este email.</p>
	</body>
	</html>`, name)

	return SendEmail(to, subject, body)
}
