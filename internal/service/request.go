package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"mandado/internal/domain"
	"mandado/internal/repository"
)

// RequestService handles service request operations.
type RequestService struct {
	requestRepo  repository.RequestRepository
	providerRepo repository.ProviderRepository
	matcher      Matcher
	dispatcher   *Dispatcher
	notification *NotificationService
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	providerRepo repository.ProviderRepository,
	matcher Matcher,
	dispatcher *Dispatcher,
	notification *NotificationService,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		matcher:      matcher,
		dispatcher:   dispatcher,
		notification: notification,
	}
}

// CreateRequestInput contains the parameters for creating a service request.
type CreateRequestInput struct {
	RequesterID        string
	Description        string
	Category           domain.ServiceCategory
	OriginLat          float64
	OriginLng          float64
	OriginAddress      string
	DestinationLat     float64
	DestinationLng     float64
	DestinationAddress string
}

// CreateRequestResult contains the result of creating a service request.
type CreateRequestResult struct {
	Request          *domain.ServiceRequest
	ProviderAssigned bool
	ProviderID       string
	Searching        bool
}

// CreateRequest prices and persists a new request, tries one immediate
// match, and starts the acceptance watch when no provider is free yet.
func (s *RequestService) CreateRequest(ctx context.Context, input CreateRequestInput) (*CreateRequestResult, error) {
	if err := validateCreateRequest(input); err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOutros
	}

	request := &domain.ServiceRequest{
		ID:                 uuid.New().String(),
		RequesterID:        input.RequesterID,
		Description:        input.Description,
		Category:           category,
		OriginLat:          input.OriginLat,
		OriginLng:          input.OriginLng,
		OriginAddress:      input.OriginAddress,
		DestinationLat:     input.DestinationLat,
		DestinationLng:     input.DestinationLng,
		DestinationAddress: input.DestinationAddress,
		Price:              QuotePrice(input.OriginLat, input.OriginLng, input.DestinationLat, input.DestinationLng),
		Status:             domain.RequestStatusPendente,
		CreatedAt:          time.Now(),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	matchResult, err := s.matcher.Match(ctx, MatchRequest{
		RequestID: request.ID,
		Lat:       input.OriginLat,
		Lng:       input.OriginLng,
	})
	if err != nil {
		if errors.Is(err, ErrNoProviderAvailable) {
			searching := false
			if s.dispatcher != nil {
				_, searching = s.dispatcher.Watch(request)
			}
			return &CreateRequestResult{Request: request, Searching: searching}, nil
		}
		return nil, err
	}

	return &CreateRequestResult{
		Request:          matchResult.Request,
		ProviderAssigned: true,
		ProviderID:       matchResult.ProviderID,
	}, nil
}

// GetRequest retrieves the current state of a request.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*domain.ServiceRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	return s.requestRepo.GetByID(ctx, requestID)
}

// ListByRequester retrieves the requests created by a user.
func (s *RequestService) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ServiceRequest, error) {
	if requesterID == "" {
		return nil, ErrInvalidRequesterID
	}
	return s.requestRepo.ListByRequester(ctx, requesterID)
}

// CancelRequestInput contains the parameters for cancelling a request.
type CancelRequestInput struct {
	RequestID   string
	CancelledBy string
	Reason      string
}

// CancelRequest cancels a service request and stops any running
// acceptance watch. A previously assigned provider is freed.
func (s *RequestService) CancelRequest(ctx context.Context, input CancelRequestInput) (*domain.ServiceRequest, error) {
	if input.RequestID == "" {
		return nil, ErrInvalidRequestID
	}

	request, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	if request.Status == domain.RequestStatusCancelado {
		return nil, ErrRequestAlreadyCancelled
	}
	if request.Status == domain.RequestStatusConcluido {
		return nil, ErrRequestCannotBeCancelled
	}

	if s.dispatcher != nil {
		s.dispatcher.Cancel(request.ID)
	}

	request.Status = domain.RequestStatusCancelado
	request.CancelledAt = time.Now()
	request.CancelReason = input.Reason

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	if request.AssignedProviderID != "" {
		_ = s.providerRepo.UpdateStatus(ctx, request.AssignedProviderID, domain.ProviderStatusOnline)
	}

	if s.notification != nil {
		_ = s.notification.NotifyRequestCancelled(ctx, request, input.CancelledBy, input.Reason)
	}

	return request, nil
}

// CompleteRequest marks an in-progress request as done and frees the
// provider. Only the assigned provider may complete it.
func (s *RequestService) CompleteRequest(ctx context.Context, requestID, providerID string) (*domain.ServiceRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if providerID == "" {
		return nil, ErrInvalidProviderID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status != domain.RequestStatusEmAndamento {
		return nil, ErrRequestNotInProgress
	}
	if request.AssignedProviderID != providerID {
		return nil, ErrProviderNotAssigned
	}

	request.Status = domain.RequestStatusConcluido
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	_ = s.providerRepo.UpdateStatus(ctx, providerID, domain.ProviderStatusOnline)

	if s.notification != nil {
		_ = s.notification.NotifyRequestCompleted(ctx, request)
	}

	return request, nil
}

// validateCreateRequest validates the create request input.
func validateCreateRequest(input CreateRequestInput) error {
	if input.RequesterID == "" {
		return ErrInvalidRequesterID
	}
	if input.Description == "" {
		return ErrInvalidDescription
	}

	switch input.Category {
	case "", domain.CategoryFarmacia, domain.CategoryMercado, domain.CategoryEntrega, domain.CategoryOutros:
	default:
		return ErrInvalidCategory
	}

	if !isValidLatitude(input.OriginLat) || !isValidLongitude(input.OriginLng) {
		return ErrInvalidOrigin
	}
	if !isValidLatitude(input.DestinationLat) || !isValidLongitude(input.DestinationLng) {
		return ErrInvalidDestination
	}

	return nil
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
