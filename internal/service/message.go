package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

var ErrContentRequired = errors.New("content is required")

// MessageService handles the project communication channel.
type MessageService struct {
	repo repository.MessageRepository
}

// NewMessageService creates a new MessageService.
func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo}
}

// Post stores a message sent by the given user.
func (s *MessageService) Post(ctx context.Context, sender *model.User, req model.MessageRequest) (model.MessageResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return model.MessageResponse{}, ErrContentRequired
	}

	msgType := strings.TrimSpace(req.Type)
	if msgType == "" {
		msgType = model.DefaultMessageType
	}

	msg := &model.Message{
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		SenderRole:  string(sender.Role),
		Content:     req.Content,
		Type:        msgType,
		ProjectID:   req.ProjectID,
		ProjectName: req.ProjectName,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return model.MessageResponse{}, err
	}
	return model.NewMessageResponse(msg), nil
}

// List returns every message, newest first.
func (s *MessageService) List(ctx context.Context) ([]model.MessageResponse, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

// ListByProject returns a project's messages, newest first.
func (s *MessageService) ListByProject(ctx context.Context, projectID string) ([]model.MessageResponse, error) {
	messages, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(messages), nil
}

func toMessageResponses(messages []model.Message) []model.MessageResponse {
	out := make([]model.MessageResponse, len(messages))
	for i := range messages {
		out[i] = model.NewMessageResponse(&messages[i])
	}
	return out
}
