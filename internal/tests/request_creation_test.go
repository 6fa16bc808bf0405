package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/service"
)

// ──────────────────────────────────────────────
// 1. REQUEST CREATION
// ──────────────────────────────────────────────

func TestRequestCreation_ValidInput_Succeeds(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	matcher := &MockMatcher{}

	requestService := service.NewRequestService(requestRepo, providerRepo, matcher, nil, nil)

	resp, err := requestService.CreateRequest(context.Background(), service.CreateRequestInput{
		RequesterID:    "requester-1",
		Description:    "Buscar remédio na farmácia",
		Category:       domain.CategoryFarmacia,
		OriginLat:      -23.5505,
		OriginLng:      -46.6333,
		DestinationLat: -23.5629,
		DestinationLng: -46.6544,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if resp == nil || resp.Request == nil {
		t.Fatal("expected request to be created")
	}
	if resp.Request.ID == "" {
		t.Error("expected request ID to be set")
	}
	if resp.Request.Status != domain.RequestStatusPendente {
		t.Errorf("expected status PENDENTE, got %s", resp.Request.Status)
	}
	if resp.Request.Price.LessThan(decimal.NewFromInt(10)) {
		t.Errorf("expected price to include the base fare, got %s", resp.Request.Price)
	}
	if resp.ProviderAssigned {
		t.Error("expected no provider with an empty pool")
	}
}

func TestRequestCreation_InvalidInput_Fails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   service.CreateRequestInput
		wantErr error
	}{
		{
			name: "missing requester",
			input: service.CreateRequestInput{
				Description:    "Compras",
				OriginLat:      -23.55,
				OriginLng:      -46.63,
				DestinationLat: -23.56,
				DestinationLng: -46.65,
			},
			wantErr: service.ErrInvalidRequesterID,
		},
		{
			name: "missing description",
			input: service.CreateRequestInput{
				RequesterID:    "requester-1",
				OriginLat:      -23.55,
				OriginLng:      -46.63,
				DestinationLat: -23.56,
				DestinationLng: -46.65,
			},
			wantErr: service.ErrInvalidDescription,
		},
		{
			name: "unknown category",
			input: service.CreateRequestInput{
				RequesterID:    "requester-1",
				Description:    "Compras",
				Category:       "LAVANDERIA",
				OriginLat:      -23.55,
				OriginLng:      -46.63,
				DestinationLat: -23.56,
				DestinationLng: -46.65,
			},
			wantErr: service.ErrInvalidCategory,
		},
		{
			name: "origin latitude out of range",
			input: service.CreateRequestInput{
				RequesterID:    "requester-1",
				Description:    "Compras",
				OriginLat:      91,
				OriginLng:      -46.63,
				DestinationLat: -23.56,
				DestinationLng: -46.65,
			},
			wantErr: service.ErrInvalidOrigin,
		},
		{
			name: "destination longitude out of range",
			input: service.CreateRequestInput{
				RequesterID:    "requester-1",
				Description:    "Compras",
				OriginLat:      -23.55,
				OriginLng:      -46.63,
				DestinationLat: -23.56,
				DestinationLng: -181,
			},
			wantErr: service.ErrInvalidDestination,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			requestRepo := NewMockRequestRepository()
			requestService := service.NewRequestService(requestRepo, NewMockProviderRepository(), &MockMatcher{}, nil, nil)

			_, err := requestService.CreateRequest(context.Background(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if requestRepo.CreateCallCount != 0 {
				t.Error("expected nothing persisted on validation failure")
			}
		})
	}
}

func TestRequestCreation_ImmediateMatch_AssignsProvider(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	matcher := &MockMatcher{
		MatchFunc: func(ctx context.Context, req service.MatchRequest) (*service.MatchResult, error) {
			request, err := requestRepo.GetByID(ctx, req.RequestID)
			if err != nil {
				return nil, err
			}
			request.Status = domain.RequestStatusEmAndamento
			request.AssignedProviderID = "provider-1"
			if err := requestRepo.Update(ctx, request); err != nil {
				return nil, err
			}
			return &service.MatchResult{ProviderID: "provider-1", Request: request}, nil
		},
	}

	requestService := service.NewRequestService(requestRepo, NewMockProviderRepository(), matcher, nil, nil)

	resp, err := requestService.CreateRequest(context.Background(), service.CreateRequestInput{
		RequesterID:    "requester-1",
		Description:    "Entregar documentos",
		Category:       domain.CategoryEntrega,
		OriginLat:      -23.5505,
		OriginLng:      -46.6333,
		DestinationLat: -23.5629,
		DestinationLng: -46.6544,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !resp.ProviderAssigned {
		t.Fatal("expected a provider to be assigned")
	}
	if resp.ProviderID != "provider-1" {
		t.Errorf("expected provider-1, got %s", resp.ProviderID)
	}
	if resp.Request.Status != domain.RequestStatusEmAndamento {
		t.Errorf("expected status EM_ANDAMENTO, got %s", resp.Request.Status)
	}
	if resp.Searching {
		t.Error("expected no search after an immediate match")
	}
}

func TestRequestCreation_NoProvider_StartsWatch(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	matcher := &MockMatcher{}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 50*time.Millisecond, 100)

	requestService := service.NewRequestService(requestRepo, NewMockProviderRepository(), matcher, dispatcher, nil)

	resp, err := requestService.CreateRequest(context.Background(), service.CreateRequestInput{
		RequesterID:    "requester-1",
		Description:    "Compras no mercado",
		Category:       domain.CategoryMercado,
		OriginLat:      -23.5505,
		OriginLng:      -46.6333,
		DestinationLat: -23.5629,
		DestinationLng: -46.6544,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	defer dispatcher.Cancel(resp.Request.ID)

	if !resp.Searching {
		t.Fatal("expected the acceptance watch to start")
	}
	if !dispatcher.Watching(resp.Request.ID) {
		t.Error("expected dispatcher to be watching the request")
	}
}

// ──────────────────────────────────────────────
// 2. CANCELLATION AND COMPLETION
// ──────────────────────────────────────────────

func TestCancelRequest_PendingRequest_Succeeds(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:          "req-1",
		RequesterID: "requester-1",
		Status:      domain.RequestStatusPendente,
	})

	requestService := service.NewRequestService(requestRepo, NewMockProviderRepository(), &MockMatcher{}, nil, nil)

	request, err := requestService.CancelRequest(context.Background(), service.CancelRequestInput{
		RequestID:   "req-1",
		CancelledBy: "requester-1",
		Reason:      "Não preciso mais",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if request.Status != domain.RequestStatusCancelado {
		t.Errorf("expected status CANCELADO, got %s", request.Status)
	}
	if request.CancelReason != "Não preciso mais" {
		t.Errorf("unexpected cancel reason: %s", request.CancelReason)
	}
}

func TestCancelRequest_FreesAssignedProvider(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	providerRepo.AddProvider(&domain.Provider{ID: "provider-1", Status: domain.ProviderStatusBusy})
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:                 "req-1",
		RequesterID:        "requester-1",
		Status:             domain.RequestStatusEmAndamento,
		AssignedProviderID: "provider-1",
	})

	requestService := service.NewRequestService(requestRepo, providerRepo, &MockMatcher{}, nil, nil)

	if _, err := requestService.CancelRequest(context.Background(), service.CancelRequestInput{
		RequestID:   "req-1",
		CancelledBy: "requester-1",
	}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := providerRepo.GetProvider("provider-1").Status; got != domain.ProviderStatusOnline {
		t.Errorf("expected provider back ONLINE, got %s", got)
	}
}

func TestCancelRequest_AlreadyCancelled_Fails(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:     "req-1",
		Status: domain.RequestStatusCancelado,
	})

	requestService := service.NewRequestService(requestRepo, NewMockProviderRepository(), &MockMatcher{}, nil, nil)

	_, err := requestService.CancelRequest(context.Background(), service.CancelRequestInput{RequestID: "req-1"})
	if !errors.Is(err, service.ErrRequestAlreadyCancelled) {
		t.Errorf("expected ErrRequestAlreadyCancelled, got %v", err)
	}
}

func TestCompleteRequest_OnlyAssignedProvider(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	providerRepo := NewMockProviderRepository()
	providerRepo.AddProvider(&domain.Provider{ID: "provider-1", Status: domain.ProviderStatusBusy})
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:                 "req-1",
		Status:             domain.RequestStatusEmAndamento,
		AssignedProviderID: "provider-1",
	})

	requestService := service.NewRequestService(requestRepo, providerRepo, &MockMatcher{}, nil, nil)

	if _, err := requestService.CompleteRequest(context.Background(), "req-1", "provider-2"); !errors.Is(err, service.ErrProviderNotAssigned) {
		t.Fatalf("expected ErrProviderNotAssigned, got %v", err)
	}

	request, err := requestService.CompleteRequest(context.Background(), "req-1", "provider-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if request.Status != domain.RequestStatusConcluido {
		t.Errorf("expected status CONCLUIDO, got %s", request.Status)
	}
	if got := providerRepo.GetProvider("provider-1").Status; got != domain.ProviderStatusOnline {
		t.Errorf("expected provider back ONLINE, got %s", got)
	}
}

func TestCompleteRequest_NotInProgress_Fails(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:     "req-1",
		Status: domain.RequestStatusPendente,
	})

	requestService := service.NewRequestService(requestRepo, NewMockProviderRepository(), &MockMatcher{}, nil, nil)

	_, err := requestService.CompleteRequest(context.Background(), "req-1", "provider-1")
	if !errors.Is(err, service.ErrRequestNotInProgress) {
		t.Errorf("expected ErrRequestNotInProgress, got %v", err)
	}
}
