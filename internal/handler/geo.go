package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mandado/internal/geo"
)

// GeoHandler handles HTTP requests for geocoding lookups.
type GeoHandler struct {
	geoClient *geo.Client
}

// NewGeoHandler creates a new GeoHandler.
func NewGeoHandler(geoClient *geo.Client) *GeoHandler {
	return &GeoHandler{geoClient: geoClient}
}

// Search handles GET /v1/geo/search?q=...
func (h *GeoHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q is required"})
		return
	}

	places, err := h.geoClient.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, places)
}

// Reverse handles GET /v1/geo/reverse?lat=...&lng=...
func (h *GeoHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng are required"})
		return
	}

	place, err := h.geoClient.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, place)
}

// Nearby handles GET /v1/geo/nearby?lat=...&lng=...&amenity=...&radius=...
func (h *GeoHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lat and lng are required"})
		return
	}

	amenity := c.Query("amenity")
	if amenity == "" {
		amenity = "pharmacy"
	}
	radius, err := strconv.Atoi(c.DefaultQuery("radius", "1000"))
	if err != nil || radius <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "radius must be a positive integer"})
		return
	}

	places, err := h.geoClient.Nearby(c.Request.Context(), lat, lng, amenity, radius)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, places)
}

// LookupCEP handles GET /v1/geo/cep/:cep
func (h *GeoHandler) LookupCEP(c *gin.Context) {
	address, err := h.geoClient.LookupCEP(c.Request.Context(), c.Param("cep"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}
