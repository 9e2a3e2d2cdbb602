package email

import (
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// OTPMailer delivers one-time verification codes
type OTPMailer interface {
	SendOTP(toEmail, code string, validFor time.Duration) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Enabled reports whether credentials are present; without them codes are only logged
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPMailer implements OTPMailer
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	if config.Port == 0 {
		config.Port = 587
	}
	if config.FromName == "" {
		config.FromName = "LibraryHub"
	}
	return &SMTPMailer{config: config, logger: logger}
}

// SendOTP emails the code. Without SMTP credentials it only logs the code
// so local development keeps working.
func (m *SMTPMailer) SendOTP(toEmail, code string, validFor time.Duration) error {
	if toEmail == "" {
		return errors.New("recipient email is required")
	}
	if !m.config.Enabled() {
		m.logger.Warn().
			Str("toEmail", toEmail).
			Str("otp", code).
			Msg("SMTP credentials not configured - verification email not sent")
		return nil
	}

	subject := "Your LibraryHub verification code"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Confirm your account</h2>
				<p>Enter this code to finish signing up:</p>
				<p style="font-size: 28px; letter-spacing: 8px; font-weight: bold;">%s</p>
				<p>The code expires in %d minutes.</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(code), int(validFor.Minutes()))

	return m.sendHTMLEmail(toEmail, subject, body)
}

func (m *SMTPMailer) buildMessage(toEmail, subject, htmlBody string) string {
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail)},
		{"To", toEmail},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}

func (m *SMTPMailer) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	message := m.buildMessage(toEmail, subject, htmlBody)
	serverAddress := m.config.Host + ":" + strconv.Itoa(m.config.Port)

	if !m.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, m.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
			m.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: m.config.Host})
	if err != nil {
		m.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		m.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
