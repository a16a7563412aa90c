// Package http exposes the collaborator surfaces of the dispatch core:
// the location-update endpoint written to by delivery partner devices and
// the read-only driver feed.
package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	updateLocationHandler commands.UpdatePartnerLocationCommandHandler
	getAllPartnersHandler queries.GetAllPartnersQueryHandler
}

// NewServer creates the HTTP server with its command and query handlers.
func NewServer(
	updateLocationHandler commands.UpdatePartnerLocationCommandHandler,
	getAllPartnersHandler queries.GetAllPartnersQueryHandler,
) *Server {
	return &Server{
		updateLocationHandler: updateLocationHandler,
		getAllPartnersHandler: getAllPartnersHandler,
	}
}

// Register mounts all routes on the echo instance.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/partners/location", s.UpdateLocation)
	e.GET("/api/v1/partners", s.GetPartners)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// errorResponse is the error body shape for all endpoints.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// locationUpdateRequest is the body of POST /api/v1/partners/location.
// Latitude and longitude are required unless status is offline;
// lastAssigned (unix ms) optionally restores the fairness timestamp.
type locationUpdateRequest struct {
	DeliveryPartnerID string   `json:"deliveryPartnerId"`
	Status            string   `json:"status"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	LastAssigned      *int64   `json:"lastAssigned"`
}

// UpdateLocation handles POST /api/v1/partners/location - applies a partner
// status/position report.
func (s *Server) UpdateLocation(ctx echo.Context) error {
	var req locationUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.DeliveryPartnerID == "" || req.Status == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Missing deliveryPartnerId or status",
		})
	}

	var location *kernel.GeoPoint
	status := partner.Status(req.Status)
	if status.IsActive() {
		if req.Latitude == nil || req.Longitude == nil {
			return ctx.JSON(http.StatusBadRequest, errorResponse{
				Code:    http.StatusBadRequest,
				Message: "Missing latitude or longitude",
			})
		}

		point, err := kernel.NewGeoPoint(*req.Latitude, *req.Longitude)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, errorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid coordinates",
			})
		}
		location = &point
	}

	var lastAssigned *time.Time
	if req.LastAssigned != nil {
		at := time.UnixMilli(*req.LastAssigned)
		lastAssigned = &at
	}

	command, err := commands.NewUpdatePartnerLocationCommand(
		req.DeliveryPartnerID, status, location, lastAssigned)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err = s.updateLocationHandler.Handle(ctx.Request().Context(), command); err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to update delivery partner",
		})
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "Delivery partner updated",
	})
}

// GetPartners handles GET /api/v1/partners - returns the driver feed.
func (s *Server) GetPartners(ctx echo.Context) error {
	query := queries.NewGetAllPartnersQuery()

	partners, err := s.getAllPartnersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve delivery partners",
		})
	}

	return ctx.JSON(http.StatusOK, partners)
}
