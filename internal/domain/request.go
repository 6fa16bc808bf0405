package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus represents the current status of a service request.
// These values are the canonical wire representation; no aliases or
// alternate casings are accepted at the boundary.
type RequestStatus string

const (
	RequestStatusPendente    RequestStatus = "PENDENTE"
	RequestStatusEmAndamento RequestStatus = "EM_ANDAMENTO"
	RequestStatusConcluido   RequestStatus = "CONCLUIDO"
	RequestStatusCancelado   RequestStatus = "CANCELADO"
)

// ServiceCategory classifies what kind of errand is being requested.
type ServiceCategory string

const (
	CategoryFarmacia ServiceCategory = "FARMACIA"
	CategoryMercado  ServiceCategory = "MERCADO"
	CategoryEntrega  ServiceCategory = "ENTREGA"
	CategoryOutros   ServiceCategory = "OUTROS"
)

// ServiceRequest represents an errand requested by a contratante.
type ServiceRequest struct {
	ID                 string
	RequesterID        string
	Description        string
	Category           ServiceCategory
	OriginLat          float64
	OriginLng          float64
	OriginAddress      string
	DestinationLat     float64
	DestinationLng     float64
	DestinationAddress string
	Price              decimal.Decimal
	Status             RequestStatus
	AssignedProviderID string
	PaidAt             time.Time
	CreatedAt          time.Time
	CancelledAt        time.Time
	CancelReason       string
}
