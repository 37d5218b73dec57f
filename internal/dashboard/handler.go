package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/equalpay/equalpay/pkg/middleware"
	"github.com/equalpay/equalpay/pkg/response"
)

// Handler handles HTTP requests for the dashboard
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for dashboard endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stats", h.GetStats)
	r.Get("/activity", h.GetActivity)

	return r
}

// GetStats handles GET /dashboard/stats
// @Summary      Get dashboard statistics
// @Description  Get the authenticated user's spending totals, group count and overall net balance
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} response.APIResponse{data=StatsResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /dashboard/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to compute dashboard stats")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// GetActivity handles GET /dashboard/activity
// @Summary      Get recent activity
// @Description  Get the authenticated user's most recent expenses across all groups
// @Tags         dashboard
// @Produce      json
// @Param        limit query int false "Max items" default(10)
// @Success      200 {object} response.APIResponse{data=[]ActivityItem}
// @Failure      401 {object} response.APIResponse
// @Router       /dashboard/activity [get]
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, "Failed to load recent activity")
		return
	}

	response.JSON(w, http.StatusOK, items)
}
