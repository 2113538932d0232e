package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"securestock/internal/config"
	"securestock/pkg/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	sender Sender
	logger *zap.Logger
}

func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewMailerWithSender(cfg.From, dialer, logger)
}

func NewMailerWithSender(from string, sender Sender, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{from: from, sender: sender, logger: logger}
}

// NotifyTechnician sends the maintenance notice to the technician's address.
func (m *Mailer) NotifyTechnician(ctx context.Context, notice models.MaintenanceNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := RenderNotice(notice)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", notice.TechnicianEmail, notice.TechnicianName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send maintenance notice: %w", err)
	}

	m.logger.Debug("maintenance notice sent",
		zap.String("to", notice.TechnicianEmail),
		zap.String("equipment", notice.EquipmentName))
	return nil
}

var noticeTemplate = template.Must(template.New("notice").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>Maintenance scheduled</h2>
  <p>Hello {{if .TechnicianName}}{{.TechnicianName}}{{else}}there{{end}},</p>
  <p>You have been assigned a maintenance job.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Equipment</strong></td><td>{{.EquipmentName}}</td></tr>
    <tr><td><strong>Type</strong></td><td>{{.MaintenanceType}}</td></tr>
    <tr><td><strong>Scheduled</strong></td><td>{{.Scheduled}}</td></tr>
    <tr><td><strong>Priority</strong></td><td>{{.Priority}}</td></tr>
    {{if .Description}}<tr><td><strong>Details</strong></td><td>{{.Description}}</td></tr>{{end}}
  </table>
  <p>Please update the ticket status once the work starts.</p>
</body>
</html>`))

type noticeView struct {
	models.MaintenanceNotice
	Scheduled string
}

// RenderNotice builds the subject line and HTML body for notice.
func RenderNotice(notice models.MaintenanceNotice) (string, string, error) {
	view := noticeView{MaintenanceNotice: notice, Scheduled: "not set"}
	if !notice.ScheduledDate.IsZero() {
		view.Scheduled = notice.ScheduledDate.String()
	}
	if view.Priority == "" {
		view.Priority = "medium"
	}

	var body bytes.Buffer
	if err := noticeTemplate.Execute(&body, view); err != nil {
		return "", "", fmt.Errorf("failed to render maintenance notice: %w", err)
	}

	subject := fmt.Sprintf("[%s] %s scheduled: %s", strings.ToUpper(view.Priority), notice.MaintenanceType, notice.EquipmentName)
	return subject, body.String(), nil
}
