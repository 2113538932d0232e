package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"securestock/pkg/clients/llm"
	"securestock/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const systemPrompt = `You are the assistant of an internal IT equipment inventory.
Answer questions about stock items, categories, employees, assignments and maintenance.
Be concise. When you do not know something, say so instead of guessing.`

var (
	ErrEmptyConversation = errors.New("conversation has no messages")
	ErrLastTurnNotUser   = errors.New("last message must come from the user")
	ErrSnapshotFailed    = errors.New("failed to gather inventory snapshot")
)

// SnapshotProvider supplies the inventory state for context-aware answers.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*models.InventorySnapshot, error)
}

type ChatService struct {
	repository ChatRepository
	client     llm.Client
	snapshots  SnapshotProvider
	logger     *zap.Logger
	now        func() time.Time
}

func NewChatService(r ChatRepository, client llm.Client, snapshots SnapshotProvider, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		repository: r,
		client:     client,
		snapshots:  snapshots,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ChatService) GetHistory(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	return s.repository.GetHistory(ctx, userID)
}

func (s *ChatService) ClearHistory(ctx context.Context, userID string) error {
	removed, err := s.repository.ClearHistory(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug("chat history cleared", zap.String("user_id", userID), zap.Int64("removed", removed))
	return nil
}

// Reply answers the conversation with the plain system prompt.
func (s *ChatService) Reply(ctx context.Context, userID string, req models.ChatRequest) (string, error) {
	return s.complete(ctx, userID, req, systemPrompt, "")
}

// InventoryReply answers the conversation with the current inventory attached.
// apiKey, when not empty, replaces the server key for this call only.
func (s *ChatService) InventoryReply(ctx context.Context, userID string, req models.ChatRequest, apiKey string) (string, error) {
	if err := validateTurns(req.Messages); err != nil {
		return "", err
	}

	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSnapshotFailed, err)
	}

	system, err := InventoryPrompt(snapshot)
	if err != nil {
		return "", err
	}

	return s.complete(ctx, userID, req, system, strings.TrimSpace(apiKey))
}

// InventoryPrompt appends snapshot as JSON to the system prompt.
func InventoryPrompt(snapshot *models.InventorySnapshot) (string, error) {
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode inventory snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nCurrent inventory state (")
	b.WriteString(snapshot.GeneratedAt.Format(time.RFC3339))
	b.WriteString("):\n")
	b.Write(payload)
	return b.String(), nil
}

func (s *ChatService) complete(ctx context.Context, userID string, req models.ChatRequest, system, apiKey string) (string, error) {
	if err := validateTurns(req.Messages); err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(req.Messages))
	for _, turn := range req.Messages {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	asked := s.now().UTC()
	reply, err := s.client.Complete(ctx, llm.CompletionRequest{
		System:   system,
		Messages: messages,
		APIKey:   apiKey,
	})
	if err != nil {
		return "", err
	}

	last := req.Messages[len(req.Messages)-1]
	history := []models.ChatMessage{
		{ID: uuid.NewString(), UserID: userID, Role: models.ChatRoleUser, Content: last.Content, CreatedAt: asked},
		{ID: uuid.NewString(), UserID: userID, Role: models.ChatRoleAssistant, Content: reply, CreatedAt: s.now().UTC()},
	}
	if err := s.repository.AppendMessages(context.WithoutCancel(ctx), history); err != nil {
		s.logger.Warn("failed to store chat history", zap.String("user_id", userID), zap.Error(err))
	}

	return reply, nil
}

func validateTurns(turns []models.ChatTurn) error {
	if len(turns) == 0 {
		return ErrEmptyConversation
	}
	if turns[len(turns)-1].Role != models.ChatRoleUser {
		return ErrLastTurnNotUser
	}
	return nil
}
