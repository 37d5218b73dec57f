package balance

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/equalpay/equalpay/pkg/response"
)

// Handler handles HTTP requests for balance computations
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GetGroupBalance)
	r.Get("/user/{userId}", h.GetUserBalances)

	return r
}

// GetGroupBalance handles GET /balances/group/{groupId}
// @Summary      Get group balance sheet
// @Description  Compute per-member paid/owed/net balances and the minimal settlement plan for a group
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupBalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GetGroupBalance(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	result, err := h.service.GroupBalance(r.Context(), groupID)
	if err != nil {
		writeBalanceError(w, groupID, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// GetUserBalances handles GET /balances/user/{userId}
// @Summary      Get a user's balances
// @Description  Get the user's net balance in each group they belong to
// @Tags         balances
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]UserGroupBalanceResponse}
// @Router       /balances/user/{userId} [get]
func (h *Handler) GetUserBalances(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	balances, err := h.service.UserBalances(r.Context(), userID)
	if err != nil {
		writeBalanceError(w, 0, err)
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

// writeBalanceError maps computation failures to HTTP responses. Dangling
// participants and unbalanced ledgers are server-side data-integrity bugs:
// they get logged loudly and surface as 500s, never as user errors.
func writeBalanceError(w http.ResponseWriter, groupID int64, err error) {
	var dangling *DanglingParticipantError
	var unbalanced *UnbalancedLedgerError

	switch {
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.As(err, &dangling):
		log.Printf("ERROR: data integrity failure in group %d: %v", groupID, dangling)
		response.InternalError(w, "Balance computation failed")
	case errors.As(err, &unbalanced):
		log.Printf("ERROR: unbalanced ledger in group %d: %v", groupID, unbalanced)
		response.InternalError(w, "Balance computation failed")
	default:
		response.InternalError(w, "Failed to compute balances")
	}
}
