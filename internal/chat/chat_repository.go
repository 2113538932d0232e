package chat

import (
	"context"
	"fmt"

	"securestock/internal/repository"
	"securestock/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ChatRepository interface {
	GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error)
	AppendMessages(ctx context.Context, messages []models.ChatMessage) error
	ClearHistory(ctx context.Context, userID string) (int64, error)
}

type chatRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ChatRepository {
	return &chatRepositoryImpl{repository: r}
}

func (r *chatRepositoryImpl) GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	err := r.repository.GoquDBWrapper.
		Select("id", "user_id", "role", "content", "created_at").
		From("chat_messages").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.C("created_at").Asc(), goqu.C("id").Asc()).
		Executor().ScanStructsContext(ctx, &messages)
	if err != nil {
		return nil, fmt.Errorf("failed to select chat history: %w", err)
	}

	return messages, nil
}

// AppendMessages writes all messages in one statement so a pair is stored together or not at all.
func (r *chatRepositoryImpl) AppendMessages(ctx context.Context, messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	rows := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, goqu.Record{
			"id":         m.ID,
			"user_id":    m.UserID,
			"role":       m.Role,
			"content":    m.Content,
			"created_at": m.CreatedAt,
		})
	}

	_, err := r.repository.GoquDBWrapper.Insert("chat_messages").Rows(rows...).Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert chat messages: %w", err)
	}

	return nil
}

func (r *chatRepositoryImpl) ClearHistory(ctx context.Context, userID string) (int64, error) {
	res, err := r.repository.GoquDBWrapper.
		Delete("chat_messages").
		Where(goqu.Ex{"user_id": userID}).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", err)
	}

	return res.RowsAffected()
}
