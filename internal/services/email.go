package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/b0ase/backend/internal/config"
	"github.com/b0ase/backend/pkg/logger"
)

type EmailService struct {
	cfg *config.SMTPConfig
}

func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendGrantNotice emails a user about a membership change on a project.
// A disabled or unconfigured SMTP section makes this a no-op.
func (s *EmailService) SendGrantNotice(task *GrantNoticeTask) error {
	if !s.cfg.Enabled || s.cfg.Host == "" {
		return nil
	}
	if task.Email == "" {
		return nil
	}

	var subject string
	if task.Revoked {
		subject = fmt.Sprintf("[b0ase] Access removed: %s", task.ProjectName)
	} else {
		subject = fmt.Sprintf("[b0ase] You were added to %s", task.ProjectName)
	}

	body := s.buildGrantNoticeBody(task)
	return s.sendEmail([]string{task.Email}, subject, body)
}

func (s *EmailService) buildGrantNoticeBody(task *GrantNoticeTask) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	if task.Revoked {
		sb.WriteString("<h2>Project access removed</h2>")
		sb.WriteString(fmt.Sprintf("<p>Your access to <strong>%s</strong> has been removed", task.ProjectName))
		if task.GrantedBy != "" {
			sb.WriteString(fmt.Sprintf(" by %s", task.GrantedBy))
		}
		sb.WriteString(".</p>")
	} else {
		sb.WriteString("<h2>You have a new project</h2>")
		sb.WriteString(fmt.Sprintf("<p>You were added to <strong>%s</strong> as <strong>%s</strong>", task.ProjectName, task.Role))
		if task.GrantedBy != "" {
			sb.WriteString(fmt.Sprintf(" by %s", task.GrantedBy))
		}
		sb.WriteString(".</p>")
		sb.WriteString("<p>The project now appears on your dashboard.</p>")
	}
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">b0ase.com</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) sendEmail(to []string, subject, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendEmailTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent notice to %v", to)
	return nil
}

func (s *EmailService) sendEmailTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
