package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"mandado/internal/repository"
	"mandado/internal/service"
)

// ──────────────────────────────────────────────
// 1. MARK READ OWNERSHIP
// ──────────────────────────────────────────────

func TestMarkRead_ScopedToRecipient(t *testing.T) {
	t.Parallel()

	notificationRepo := NewMockNotificationRepository()
	notificationService := service.NewNotificationService(notificationRepo)

	if err := notificationService.NotifyRechargePaid(context.Background(), "user-a", decimal.NewFromInt(50), "charge-1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	sent := notificationRepo.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(sent))
	}
	id := sent[0].ID

	// Another user cannot mark it read, even knowing the id.
	if err := notificationRepo.MarkRead(context.Background(), id, "user-b"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user, got %v", err)
	}

	list, _ := notificationRepo.ListByRecipient(context.Background(), "user-a")
	if len(list) != 1 || list[0].Read {
		t.Error("expected the notification to stay unread after the cross-user attempt")
	}

	// The owner can.
	if err := notificationRepo.MarkRead(context.Background(), id, "user-a"); err != nil {
		t.Fatalf("expected no error for the owner, got: %v", err)
	}
	list, _ = notificationRepo.ListByRecipient(context.Background(), "user-a")
	if len(list) != 1 || !list[0].Read {
		t.Error("expected the notification to be read by its owner")
	}
}
