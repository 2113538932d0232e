package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"securestock/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func sampleNotice() models.MaintenanceNotice {
	return models.MaintenanceNotice{
		TechnicianName:  "Bo Chen",
		TechnicianEmail: "bo@example.com",
		EquipmentName:   "Laser <Printer>",
		MaintenanceType: "repair",
		ScheduledDate:   models.NewDate(time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)),
		Priority:        "high",
		Description:     "Paper jam",
	}
}

func TestRenderNotice(t *testing.T) {
	subject, body, err := RenderNotice(sampleNotice())
	require.NoError(t, err)

	assert.Equal(t, "[HIGH] repair scheduled: Laser <Printer>", subject)
	assert.Contains(t, body, "Hello Bo Chen")
	assert.Contains(t, body, "2024-07-09")
	assert.Contains(t, body, "Paper jam")
	assert.Contains(t, body, "Laser &lt;Printer&gt;")
}

func TestRenderNoticeDefaults(t *testing.T) {
	subject, body, err := RenderNotice(models.MaintenanceNotice{
		TechnicianEmail: "x@example.com", EquipmentName: "Router", MaintenanceType: "inspection",
	})
	require.NoError(t, err)

	assert.Equal(t, "[MEDIUM] inspection scheduled: Router", subject)
	assert.Contains(t, body, "Hello there")
	assert.Contains(t, body, "not set")
	assert.NotContains(t, body, "Details")
}

func TestNotifyTechnician(t *testing.T) {
	sender := &fakeSender{}
	mailer := NewMailerWithSender("stock@example.com", sender, nil)

	require.NoError(t, mailer.NotifyTechnician(context.Background(), sampleNotice()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"stock@example.com"}, msg.GetHeader("From"))
	require.Len(t, msg.GetHeader("To"), 1)
	assert.Contains(t, msg.GetHeader("To")[0], "bo@example.com")
	assert.NotEmpty(t, msg.GetHeader("Subject"))
}

func TestNotifyTechnicianSendFailure(t *testing.T) {
	mailer := NewMailerWithSender("stock@example.com", &fakeSender{err: errors.New("connection refused")}, nil)

	err := mailer.NotifyTechnician(context.Background(), sampleNotice())
	assert.ErrorContains(t, err, "connection refused")
}

func TestNotifyTechnicianCancelledContext(t *testing.T) {
	sender := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMailerWithSender("stock@example.com", sender, nil).NotifyTechnician(ctx, sampleNotice())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
