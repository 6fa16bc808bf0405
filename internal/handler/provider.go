package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mandado/internal/domain"
	"mandado/internal/repository"
	"mandado/internal/service"
)

// ProviderHandler handles HTTP requests for providers.
type ProviderHandler struct {
	providerService *service.ProviderService
	providerRepo    repository.ProviderRepository
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(providerService *service.ProviderService, providerRepo repository.ProviderRepository) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		providerRepo:    providerRepo,
	}
}

// RegisterProviderBody is the HTTP request body for creating a provider profile.
type RegisterProviderBody struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
	Plate   string `json:"plate"`
}

// LocationBody is the HTTP request body for provider location updates.
type LocationBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ProviderResponse is the HTTP response for provider data.
type ProviderResponse struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle string  `json:"vehicle,omitempty"`
	Plate   string  `json:"plate,omitempty"`
	Rating  float64 `json:"rating"`
	Status  string  `json:"status"`
}

// ProviderDetailsResponse is the provider profile plus last known location.
type ProviderDetailsResponse struct {
	Provider ProviderResponse  `json:"provider"`
	Location *LocationResponse `json:"location,omitempty"`
}

// LocationResponse is a provider location in a response.
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toProviderResponse(provider *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ID:      provider.ID,
		UserID:  provider.UserID,
		Name:    provider.Name,
		Phone:   provider.Phone,
		Vehicle: provider.Vehicle,
		Plate:   provider.Plate,
		Rating:  provider.Rating,
		Status:  string(provider.Status),
	}
}

// resolve looks up the provider profile owned by the authenticated user.
func (h *ProviderHandler) resolve(c *gin.Context) (*domain.Provider, bool) {
	provider, err := h.providerRepo.GetByUserID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return provider, true
}

// Register handles POST /v1/providers
func (h *ProviderHandler) Register(c *gin.Context) {
	var body RegisterProviderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	provider, err := h.providerService.Register(c.Request.Context(), service.RegisterProviderInput{
		UserID:  c.GetString("user_id"),
		Name:    body.Name,
		Phone:   body.Phone,
		Vehicle: body.Vehicle,
		Plate:   body.Plate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProviderResponse(provider))
}

// UpdateLocation handles PUT /v1/providers/me/location
func (h *ProviderHandler) UpdateLocation(c *gin.Context) {
	var body LocationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	provider, ok := h.resolve(c)
	if !ok {
		return
	}

	err := h.providerService.UpdateLocation(c.Request.Context(), service.UpdateLocationInput{
		ProviderID: provider.ID,
		Lat:        body.Lat,
		Lng:        body.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// SetOffline handles POST /v1/providers/me/offline
func (h *ProviderHandler) SetOffline(c *gin.Context) {
	provider, ok := h.resolve(c)
	if !ok {
		return
	}

	if err := h.providerService.SetOffline(c.Request.Context(), provider.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Provider offline"})
}

// AcceptRequest handles POST /v1/providers/me/accept/:request_id
func (h *ProviderHandler) AcceptRequest(c *gin.Context) {
	provider, ok := h.resolve(c)
	if !ok {
		return
	}

	request, err := h.providerService.AcceptRequest(c.Request.Context(), provider.ID, c.Param("request_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(request))
}

// Details handles GET /v1/providers/:id
func (h *ProviderHandler) Details(c *gin.Context) {
	details, err := h.providerService.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := ProviderDetailsResponse{
		Provider: toProviderResponse(details.Provider),
	}
	if details.Location != nil {
		response.Location = &LocationResponse{
			Lat: details.Location.Lat,
			Lng: details.Location.Lng,
		}
	}

	c.JSON(http.StatusOK, response)
}
