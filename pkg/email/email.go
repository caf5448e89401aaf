package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	Recipients   []string
}

// Enabled reports whether there is a server and someone to send to
func (c EmailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.FromEmail != "" && len(c.Recipients) > 0
}

// ExpiringPolicy is one line of the expiry digest
type ExpiringPolicy struct {
	PolicyNumber string
	CustomerName string
	PlateNumber  string
	EndDate      time.Time
	DaysLeft     int
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   sendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// SendExpiringDigest mails the list of policies that are about to end to
// every configured recipient. An empty list sends nothing.
func (s *EmailService) SendExpiringDigest(ctx context.Context, policies []ExpiringPolicy) error {
	if len(policies) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	htmlContent, err := renderExpiringDigest(s.config.FromName, policies)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%d policies expiring soon", len(policies))
	message := s.buildHTMLEmail(s.config.Recipients, subject, htmlContent)

	return s.sendEmail(s.config.Recipients, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to []string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to []string, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		strings.Join(to, ", "),
		subject,
	)

	return []byte(headers + htmlBody)
}

var digestTemplate = template.Must(template.New("expiring_digest").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02.01.2006") },
}).Parse(expiringDigestTemplate))

func renderExpiringDigest(appName string, policies []ExpiringPolicy) (string, error) {
	data := struct {
		AppName  string
		Policies []ExpiringPolicy
	}{
		AppName:  appName,
		Policies: policies,
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const expiringDigestTemplate = `
<!DOCTYPE html>
<html lang="tr">
<head>
    <meta charset="UTF-8">
    <title>Yaklaşan Poliçe Bitişleri</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 640px; margin: 0 auto; background-color: #ffffff; border-collapse: collapse;">
        <tr>
            <td style="background-color: #1f3a5f; padding: 24px 30px;">
                <h1 style="color: #ffffff; margin: 0; font-size: 22px;">{{.AppName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 24px 30px;">
                <p style="color: #4a5568; font-size: 15px; margin: 0 0 16px 0;">Süresi yaklaşan poliçeler:</p>
                <table role="presentation" style="width: 100%; border-collapse: collapse; font-size: 14px;">
                    <tr style="text-align: left; color: #1a1a2e;">
                        <th style="padding: 6px; border-bottom: 1px solid #e2e8f0;">Poliçe No</th>
                        <th style="padding: 6px; border-bottom: 1px solid #e2e8f0;">Müşteri</th>
                        <th style="padding: 6px; border-bottom: 1px solid #e2e8f0;">Plaka</th>
                        <th style="padding: 6px; border-bottom: 1px solid #e2e8f0;">Bitiş</th>
                        <th style="padding: 6px; border-bottom: 1px solid #e2e8f0;">Kalan Gün</th>
                    </tr>
                    {{range .Policies}}
                    <tr style="color: #4a5568;">
                        <td style="padding: 6px;">{{.PolicyNumber}}</td>
                        <td style="padding: 6px;">{{.CustomerName}}</td>
                        <td style="padding: 6px;">{{.PlateNumber}}</td>
                        <td style="padding: 6px;">{{date .EndDate}}</td>
                        <td style="padding: 6px;">{{.DaysLeft}}</td>
                    </tr>
                    {{end}}
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`
