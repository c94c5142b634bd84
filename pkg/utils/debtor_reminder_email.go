package utils

import (
	"fmt"
	"time"
)

func SendDebtorReminderEmail(to, name, totalOwed, creditorName string, oldestDebt time.Time) error {
	subject := "Lembrete: você tem despesas compartilhadas pendentes"

	body := fmt.Sprintf(`
	<html>
	<body style="font-family: 'Segoe UI', Roboto, Arial, sans-serif; color: #333333;">
		<h2 style="color: #0a4d3c;">Olá, %s!</h2>
		<p>Você tem <strong>R$ %s</strong> em divisões pendentes com <strong>%s</strong>.</p>
		<p>A despesa mais antiga é de %s. Acesse o CoFi para acertar o saldo
		quando quiser — dívidas mútuas são abatidas automaticamente.</p>
	</body>
	</html>`, name, totalOwed, creditorName, oldestDebt.Format("02/01/2006"))

	return SendEmail(to, subject, body)
}
