package contact

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.ContactMessage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestSubmitStoresMessage(t *testing.T) {
	svc, _ := newTestService(t)

	subject := "Delivery question"
	dto, err := svc.Submit(context.Background(), SubmitInput{
		Name:    "  Ada Buyer  ",
		Email:   "ada@example.com",
		Subject: &subject,
		Message: "When does the oak table ship?",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.Name != "Ada Buyer" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.Subject == nil || *dto.Subject != subject {
		t.Fatalf("expected subject kept, got %v", dto.Subject)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []SubmitInput{
		{Name: "", Email: "a@b.c", Message: "hi"},
		{Name: "Ada", Email: " ", Message: "hi"},
		{Name: "Ada", Email: "a@b.c", Message: "  "},
	}
	for _, input := range cases {
		_, err := svc.Submit(ctx, input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestListMessagesPagination(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		message := &models.ContactMessage{
			ID:      uuid.New(),
			Name:    "Ada",
			Email:   "ada@example.com",
			Message: "hello",
		}
		if err := conn.Create(message).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	rows, total, err := svc.ListMessages(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Fatalf("expected total=3 page=2, got total=%d len=%d", total, len(rows))
	}
}

func TestMarkRead(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	message := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "hello",
	}
	if err := conn.Create(message).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}

	unread, err := svc.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected 1 unread, got %d", unread)
	}

	dto, err := svc.MarkRead(ctx, message.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !dto.IsRead {
		t.Fatal("expected message flagged read")
	}

	// Second mark is a no-op, not an error.
	if _, err := svc.MarkRead(ctx, message.ID); err != nil {
		t.Fatalf("repeat mark read: %v", err)
	}

	unread, err = svc.UnreadCount(ctx)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread, got %d", unread)
	}
}

func TestMarkReadUnknownMessage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.MarkRead(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMessage(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	message := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "hello",
	}
	if err := conn.Create(message).Error; err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if err := svc.DeleteMessage(ctx, message.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err := svc.DeleteMessage(ctx, message.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	old := &models.ContactMessage{
		ID:        uuid.New(),
		Name:      "Ada",
		Email:     "ada@example.com",
		Message:   "old",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := &models.ContactMessage{
		ID:      uuid.New(),
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "fresh",
	}
	for _, row := range []*models.ContactMessage{old, fresh} {
		if err := conn.Create(row).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	removed, err := svc.PurgeOlderThan(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 purged, got %d", removed)
	}

	_, total, err := svc.ListMessages(ctx, pagination.Params{})
	if err != nil {
		t.Fatalf("list after purge: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 remaining, got %d", total)
	}
}
