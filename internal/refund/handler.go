package refund

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tripledger/internal/ledger"
	"tripledger/pkg/middleware"
	"tripledger/pkg/response"
)

// Handler handles HTTP requests for refund operations
type Handler struct {
	service *Service
}

// NewHandler creates a new refund handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for refund endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
	r.Get("/expense/{expenseId}", h.ListByExpense)

	return r
}

// Create handles POST /refunds
// @Summary      Record a refund
// @Description  Record a refund on an expense; recipients must be split members and the refunded total may not exceed the expense total
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Param        request body CreateRefundRequest true "Refund to record"
// @Success      201 {object} response.APIResponse{data=RefundResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /refunds [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req CreateRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ExpenseID == "" {
		response.BadRequest(w, "expense_id is required")
		return
	}

	created, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, ToResponse(created))
}

// ListByExpense handles GET /refunds/expense/{expenseId}
// @Summary      List expense refunds
// @Description  List all refunds recorded against an expense
// @Tags         refunds
// @Produce      json
// @Param        expenseId path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=[]RefundResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /refunds/expense/{expenseId} [get]
func (h *Handler) ListByExpense(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	refunds, err := h.service.ListByExpense(r.Context(), chi.URLParam(r, "expenseId"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*RefundResponse, len(refunds))
	for i := range refunds {
		resp[i] = ToResponse(&refunds[i])
	}
	response.JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /refunds/{id}
// @Summary      Delete a refund
// @Description  Delete a refund; refund creator only
// @Tags         refunds
// @Produce      json
// @Param        id path string true "Refund ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /refunds/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), callerID); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Refund deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.Is(err, ErrRefundNotFound), errors.Is(err, ErrExpenseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotCreator):
		response.Forbidden(w, err.Error())
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Error())
	default:
		slog.Error("refund request failed", "error", err)
		response.InternalError(w, "Failed to process request")
	}
}
