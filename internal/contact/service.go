package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

// SubmitInput is a storefront contact form submission.
type SubmitInput struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject,omitempty"`
	Message string  `json:"message" validate:"required"`
}

// MessageDTO is the API shape of a stored contact message.
type MessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Service accepts contact submissions and serves the admin inbox.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error)
	ListMessages(ctx context.Context, params pagination.Params) ([]MessageDTO, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error)
	UnreadCount(ctx context.Context) (int64, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo *Repository
}

// NewService builds the contact service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*MessageDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	body := strings.TrimSpace(input.Message)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	created, err := s.repo.Create(ctx, &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: input.Subject,
		Message: body,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
	}
	return toDTO(created), nil
}

func (s *service) ListMessages(ctx context.Context, params pagination.Params) ([]MessageDTO, int64, error) {
	rows, total, err := s.repo.ListMessages(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out, total, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) (*MessageDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message id required")
	}

	// Marking an already-read message again is a no-op, not an error.
	matched, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark message read")
	}
	if !matched {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
	}

	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	return toDTO(message), nil
}

func (s *service) UnreadCount(ctx context.Context) (int64, error) {
	total, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread messages")
	}
	return total, nil
}

func (s *service) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "message id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete message")
	}
	return nil
}

func (s *service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge contact messages")
	}
	return removed, nil
}

func toDTO(message *models.ContactMessage) *MessageDTO {
	return &MessageDTO{
		ID:        message.ID,
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Message:   message.Message,
		IsRead:    message.IsRead,
		CreatedAt: message.CreatedAt,
	}
}
