package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/qobilovfirdavs02/ChatApp-server/internal/config"
)

// SendResetCode emails a password reset code to the given address.
func SendResetCode(email, code string) error {
	cfg := config.AppConfig
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPFrom, cfg.SMTPPassword, cfg.SMTPHost)

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password Reset\r\n\r\nYour password reset code: %s\r\n",
		cfg.SMTPFrom, email, code)

	return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{email}, []byte(body))
}
