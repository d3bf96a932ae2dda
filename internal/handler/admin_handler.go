package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendhive/service-rental/internal/application"
	"github.com/lendhive/service-rental/pkg/auth"
	"github.com/lendhive/service-rental/pkg/middleware"
	"github.com/lendhive/service-rental/pkg/response"
)

// AdminHandler exposes the platform operator surface: full booking listings,
// status counts, and dispute resolution.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ResolveDisputeRequest holds an admin's ruling on a disputed booking.
type ResolveDisputeRequest struct {
	// Resolution is the terminal status the dispute lands on.
	Resolution string `json:"resolution" binding:"required,oneof=completed cancelled"`
	Reason     string `json:"reason" binding:"max=500"`
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.GetStats)
		admin.POST("/bookings/:id/resolve", h.ResolveDispute)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ResolveDispute handles POST /api/v1/admin/bookings/:id/resolve.
func (h *AdminHandler) ResolveDispute(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), bookingID, userID, role, application.UpdateStatusRequest{
		Status: req.Resolution,
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
