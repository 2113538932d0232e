package activitylog

import (
	"context"

	"securestock/pkg/models"

	"go.uber.org/zap"
)

type Repository interface {
	PersistActivity(ctx context.Context, entry models.ActivityEntry) error
}

// Recorder is what handlers depend on.
type Recorder interface {
	Record(ctx context.Context, entry models.ActivityEntry)
}

type Auditable interface {
	CreateLogView(action string) models.ActivityEntry
}

type ActivityLog struct {
	r      Repository
	logger *zap.Logger
}

func NewActivityLog(repository Repository, logger *zap.Logger) *ActivityLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLog{r: repository, logger: logger}
}

// Record appends entry to the history. A failed write is logged and dropped.
func (a *ActivityLog) Record(ctx context.Context, entry models.ActivityEntry) {
	if err := a.r.PersistActivity(context.WithoutCancel(ctx), entry); err != nil {
		a.logger.Warn("unable to record activity",
			zap.String("action", entry.Action),
			zap.String("page", entry.Page),
			zap.Error(err))
		return
	}

	a.logger.Debug("activity recorded", zap.String("action", entry.Action), zap.String("page", entry.Page))
}

// Entry builds an activity entry for item performed by userID.
func Entry(userID, action string, item Auditable) models.ActivityEntry {
	entry := item.CreateLogView(action)
	entry.UserID = userID
	entry.Action = action
	return entry
}
