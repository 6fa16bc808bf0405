package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mandado/internal/domain"
	"mandado/internal/repository"
	"mandado/internal/service"
)

// RequestHandler handles HTTP requests for service requests.
type RequestHandler struct {
	requestService *service.RequestService
	providerRepo   repository.ProviderRepository
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService, providerRepo repository.ProviderRepository) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		providerRepo:   providerRepo,
	}
}

// CategoryResponse is one entry in the service category list.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories handles GET /v1/categories
func (h *RequestHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, []CategoryResponse{
		{ID: string(domain.CategoryFarmacia), Name: "Farmácia"},
		{ID: string(domain.CategoryMercado), Name: "Mercado"},
		{ID: string(domain.CategoryEntrega), Name: "Entrega"},
		{ID: string(domain.CategoryOutros), Name: "Outros"},
	})
}

// CreateRequestBody is the HTTP request body for creating a service request.
type CreateRequestBody struct {
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	OriginLat          float64 `json:"origin_lat"`
	OriginLng          float64 `json:"origin_lng"`
	OriginAddress      string  `json:"origin_address"`
	DestinationLat     float64 `json:"destination_lat"`
	DestinationLng     float64 `json:"destination_lng"`
	DestinationAddress string  `json:"destination_address"`
}

// CancelRequestBody is the HTTP request body for cancelling a service request.
type CancelRequestBody struct {
	Reason string `json:"reason"`
}

// RequestResponse is the HTTP response for service request operations.
type RequestResponse struct {
	ID                 string  `json:"id"`
	RequesterID        string  `json:"requester_id"`
	Description        string  `json:"description"`
	Category           string  `json:"category"`
	OriginLat          float64 `json:"origin_lat"`
	OriginLng          float64 `json:"origin_lng"`
	OriginAddress      string  `json:"origin_address,omitempty"`
	DestinationLat     float64 `json:"destination_lat"`
	DestinationLng     float64 `json:"destination_lng"`
	DestinationAddress string  `json:"destination_address,omitempty"`
	Price              float64 `json:"price"`
	Status             string  `json:"status"`
	ProviderID         string  `json:"provider_id,omitempty"`
	PaidAt             string  `json:"paid_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
	CancelReason       string  `json:"cancel_reason,omitempty"`
}

// CreateRequestResponse is the HTTP response for a newly created request.
type CreateRequestResponse struct {
	Request   RequestResponse `json:"request"`
	Searching bool            `json:"searching"`
}

func toRequestResponse(req *domain.ServiceRequest) RequestResponse {
	response := RequestResponse{
		ID:                 req.ID,
		RequesterID:        req.RequesterID,
		Description:        req.Description,
		Category:           string(req.Category),
		OriginLat:          req.OriginLat,
		OriginLng:          req.OriginLng,
		OriginAddress:      req.OriginAddress,
		DestinationLat:     req.DestinationLat,
		DestinationLng:     req.DestinationLng,
		DestinationAddress: req.DestinationAddress,
		Price:              req.Price.InexactFloat64(),
		Status:             string(req.Status),
		ProviderID:         req.AssignedProviderID,
		CreatedAt:          req.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		CancelReason:       req.CancelReason,
	}
	if !req.PaidAt.IsZero() {
		response.PaidAt = req.PaidAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.requestService.CreateRequest(c.Request.Context(), service.CreateRequestInput{
		RequesterID:        c.GetString("user_id"),
		Description:        body.Description,
		Category:           domain.ServiceCategory(body.Category),
		OriginLat:          body.OriginLat,
		OriginLng:          body.OriginLng,
		OriginAddress:      body.OriginAddress,
		DestinationLat:     body.DestinationLat,
		DestinationLng:     body.DestinationLng,
		DestinationAddress: body.DestinationAddress,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateRequestResponse{
		Request:   toRequestResponse(result.Request),
		Searching: result.Searching,
	})
}

// Get handles GET /v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	request, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// ListMine handles GET /v1/requests
func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requestService.ListByRequester(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RequestResponse, 0, len(requests))
	for _, req := range requests {
		response = append(response, toRequestResponse(req))
	}

	c.JSON(http.StatusOK, response)
}

// Cancel handles POST /v1/requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	var body CancelRequestBody
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	request, err := h.requestService.CancelRequest(c.Request.Context(), service.CancelRequestInput{
		RequestID:   c.Param("id"),
		CancelledBy: c.GetString("user_id"),
		Reason:      body.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// Complete handles POST /v1/requests/:id/complete
func (h *RequestHandler) Complete(c *gin.Context) {
	provider, err := h.providerRepo.GetByUserID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	request, err := h.requestService.CompleteRequest(c.Request.Context(), c.Param("id"), provider.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}
