package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"gradehub/internal/shared/config"
	"gradehub/pkg/logger"
)

// EmailSender delivers a grade notification to the student.
type EmailSender interface {
	SendGradeNotification(ctx context.Context, notification *GradeNotification) error
}

type smtpSender struct {
	cfg config.EmailConfig
	log *logger.Logger
}

func NewSMTPSender(cfg config.EmailConfig) EmailSender {
	return &smtpSender{
		cfg: cfg,
		log: logger.GetDefault(),
	}
}

func (s *smtpSender) SendGradeNotification(ctx context.Context, n *GradeNotification) error {
	if s.cfg.SMTPHost == "" {
		// No SMTP configured: log and move on, delivery is best-effort
		s.log.Info("SMTP not configured, skipping grade email", "recipient", n.RecipientEmail)
		return nil
	}

	subject := fmt.Sprintf("Your submission for %q has been graded", n.TaskTitle)
	body := s.renderBody(n)

	var msg strings.Builder
	msg.WriteString("From: " + s.cfg.FromEmail + "\r\n")
	msg.WriteString("To: " + n.RecipientEmail + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{n.RecipientEmail}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send grade email: %w", err)
	}
	return nil
}

func (s *smtpSender) renderBody(n *GradeNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", n.RecipientName)
	fmt.Fprintf(&b, "Your submission for %q was graded on %s.\n\n", n.TaskTitle, n.GradedAt.Format("Jan 2, 2006 15:04"))
	fmt.Fprintf(&b, "Grade: %.2f\n", n.Grade)
	if n.Feedback != "" {
		fmt.Fprintf(&b, "Feedback: %s\n", n.Feedback)
	}
	b.WriteString("\nThe GradeHub Team\n")
	return b.String()
}
