package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/repository"
)

// NotificationService persists notifications and logs delivery. Push
// channels (FCM, SMS) would hang off send.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService. repo may
// be nil, in which case notifications are log-only.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// NotifyProviderAssigned tells the requester a provider took the request.
func (s *NotificationService) NotifyProviderAssigned(ctx context.Context, req *domain.ServiceRequest, provider *domain.Provider) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationProviderAssigned,
		RecipientID: req.RequesterID,
		Title:       "Prestador encontrado",
		Message:     fmt.Sprintf("%s aceitou seu pedido", provider.Name),
		Data: map[string]any{
			"request_id":    req.ID,
			"provider_id":   provider.ID,
			"provider_name": provider.Name,
			"vehicle":       provider.Vehicle,
			"plate":         provider.Plate,
			"rating":        provider.Rating,
		},
	})
}

// NotifySearchTimeout tells the requester no provider accepted in time.
func (s *NotificationService) NotifySearchTimeout(ctx context.Context, req *domain.ServiceRequest) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationSearchTimeout,
		RecipientID: req.RequesterID,
		Title:       "Nenhum prestador encontrado",
		Message:     "Nenhum prestador aceitou seu pedido. Tente novamente.",
		Data:        map[string]any{"request_id": req.ID},
	})
}

// NotifyRequestCancelled tells the affected party about a cancellation.
func (s *NotificationService) NotifyRequestCancelled(ctx context.Context, req *domain.ServiceRequest, cancelledBy, reason string) error {
	var recipientID, message string
	if cancelledBy == req.RequesterID {
		recipientID = req.AssignedProviderID
		message = "O contratante cancelou o pedido"
	} else {
		recipientID = req.RequesterID
		message = "O prestador cancelou o pedido"
	}
	if recipientID == "" {
		return nil // No one to notify
	}

	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationRequestCancelled,
		RecipientID: recipientID,
		Title:       "Pedido cancelado",
		Message:     message,
		Data: map[string]any{
			"request_id":   req.ID,
			"cancelled_by": cancelledBy,
			"reason":       reason,
		},
	})
}

// NotifyRequestCompleted tells the requester the service is done.
func (s *NotificationService) NotifyRequestCompleted(ctx context.Context, req *domain.ServiceRequest) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationRequestCompleted,
		RecipientID: req.RequesterID,
		Title:       "Pedido concluído",
		Message:     fmt.Sprintf("Seu pedido foi concluído. Total: R$ %s", req.Price.StringFixed(2)),
		Data:        map[string]any{"request_id": req.ID, "price": req.Price.StringFixed(2)},
	})
}

// NotifyPaymentResult tells the payer how a wallet payment ended.
func (s *NotificationService) NotifyPaymentResult(ctx context.Context, recipientID string, amount decimal.Decimal, success bool, referenceID string) error {
	n := domain.Notification{
		RecipientID: recipientID,
		Data:        map[string]any{"amount": amount.StringFixed(2), "reference_id": referenceID},
	}
	if success {
		n.Type = domain.NotificationPaymentSuccess
		n.Title = "Pagamento realizado"
		n.Message = fmt.Sprintf("Pagamento de R$ %s realizado com sucesso", amount.StringFixed(2))
	} else {
		n.Type = domain.NotificationPaymentFailed
		n.Title = "Pagamento recusado"
		n.Message = fmt.Sprintf("Pagamento de R$ %s não foi concluído", amount.StringFixed(2))
	}
	return s.send(ctx, n)
}

// NotifyRechargePaid tells the wallet owner a PIX recharge landed.
func (s *NotificationService) NotifyRechargePaid(ctx context.Context, recipientID string, amount decimal.Decimal, chargeID string) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationRechargePaid,
		RecipientID: recipientID,
		Title:       "Recarga confirmada",
		Message:     fmt.Sprintf("Recarga de R$ %s confirmada", amount.StringFixed(2)),
		Data:        map[string]any{"amount": amount.StringFixed(2), "charge_id": chargeID},
	})
}

// NotifyWithdrawDone tells the wallet owner a withdrawal was sent.
func (s *NotificationService) NotifyWithdrawDone(ctx context.Context, recipientID string, amount decimal.Decimal) error {
	return s.send(ctx, domain.Notification{
		Type:        domain.NotificationWithdrawDone,
		RecipientID: recipientID,
		Title:       "Saque enviado",
		Message:     fmt.Sprintf("Saque de R$ %s enviado para sua chave PIX", amount.StringFixed(2)),
		Data:        map[string]any{"amount": amount.StringFixed(2)},
	})
}

// send persists and logs a notification.
func (s *NotificationService) send(ctx context.Context, n domain.Notification) error {
	n.ID = uuid.New().String()
	n.CreatedAt = time.Now()

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		n.Type, n.RecipientID, n.Title, n.Message)

	if s.notificationRepo == nil {
		return nil
	}
	return s.notificationRepo.Create(ctx, &n)
}
