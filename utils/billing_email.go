package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// SendCorporateBillingEmail notifies a corporate account's billing contact
// that a folio amount was billed to the account. Callers invoke it
// fire-and-forget: a delivery failure must never fail the billing itself.
func SendCorporateBillingEmail(recipientEmail, companyName, folioNumber, amount string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] corporate billing to:%s company:%s folio:%s amount:%s",
			recipientEmail, companyName, folioNumber, amount)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}
	companyName = safe(companyName)
	folioNumber = safe(folioNumber)
	amount = safe(amount)

	currency := EnvOrDefault("CURRENCY_CODE", "THB")

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := fmt.Sprintf("Billing notice for folio %s", folioNumber)
	boundary := "----=_BILLING_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Dear %s,\n\n"+
			"An amount of %s %s has been billed to your corporate account for folio %s.\n"+
			"Please settle the outstanding balance within your agreed payment terms.\n\n"+
			"This is an automated notice; please contact the front desk for any questions.\n",
		companyName, currency, amount, folioNumber,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Billing notice</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.amount { font-size:1.4em; font-weight:bold; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>Billing notice</h2>
    <p>Dear %s,</p>
    <p>An amount of <span class="amount">%s %s</span> has been billed to your corporate account for folio <strong>%s</strong>.</p>
    <p>Please settle the outstanding balance within your agreed payment terms.</p>
    <p>This is an automated notice; please contact the front desk for any questions.</p>
  </div>
</div>
</body>
</html>`,
		companyName, currency, amount, folioNumber,
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String()))
}
