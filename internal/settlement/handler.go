package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/equalpay/equalpay/pkg/money"
	"github.com/equalpay/equalpay/pkg/response"
	"github.com/equalpay/equalpay/pkg/validation"
)

// Handler handles HTTP requests for settlements
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Record)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/user/{userId}", h.ListByUser)

	return r
}

// Record handles POST /settlements
// @Summary      Record a settlement
// @Description  Record that a debtor paid a creditor outside the system. Balances are not modified.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        settlement body RecordSettlementRequest true "Settlement data"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validation.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	settlement, err := h.service.Record(r.Context(), &req)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// GetByID handles GET /settlements/{id}
// @Summary      Get settlement by ID
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	settlement, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, settlement.ToResponse())
}

// Delete handles DELETE /settlements/{id}
// @Summary      Delete a settlement record
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Settlement ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid settlement ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Settlement deleted successfully"})
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List settlements in a group
// @Description  List all settlements recorded in a group along with the total amount settled
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	settlements, err := h.service.ListByGroupID(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	totalSettled, err := h.service.TotalSettledByGroup(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	responses := make([]*SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		responses = append(responses, s.ToResponse())
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"settlements":   responses,
		"total_settled": money.FromCents(totalSettled),
	})
}

// ListByUser handles GET /settlements/user/{userId}
// @Summary      List settlements involving a user
// @Description  List all settlements where the user is the debtor or the creditor
// @Tags         settlements
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/user/{userId} [get]
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	settlements, err := h.service.ListByUserID(r.Context(), userID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	responses := make([]*SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		responses = append(responses, s.ToResponse())
	}

	response.JSON(w, http.StatusOK, responses)
}

func writeSettlementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSettlementNotFound), errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrCannotSettleSelf),
		errors.Is(err, ErrDebtorNotMember),
		errors.Is(err, ErrCreditorNotMember):
		response.UnprocessableEntity(w, err.Error())
	default:
		response.InternalError(w, "Something went wrong")
	}
}
