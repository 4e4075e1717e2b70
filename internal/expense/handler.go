package expense

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

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Get("/trip/{tripId}", h.ListByTrip)

	return r
}

// Create handles POST /expenses
// @Summary      Record an expense
// @Description  Record an expense on a trip; payers and splits must sum to the total
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense to record"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.TripID == "" || req.Description == "" {
		response.BadRequest(w, "trip_id and description are required")
		return
	}
	if len(req.Currency) != 3 {
		response.BadRequest(w, "currency must be a 3-letter code")
		return
	}

	created, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get an expense with its refunds; only trip members can see it
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	expense, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, expense.ToResponse())
}

// ListByTrip handles GET /expenses/trip/{tripId}
// @Summary      List trip expenses
// @Description  List all expenses of a trip with their refunds
// @Tags         expenses
// @Produce      json
// @Param        tripId path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/trip/{tripId} [get]
func (h *Handler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	expenses, err := h.service.ListByTrip(r.Context(), chi.URLParam(r, "tripId"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Delete an expense with its refunds; expense creator only
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
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

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.Is(err, ErrExpenseNotFound), errors.Is(err, ErrTripNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotCreator):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrCurrencyMismatch):
		response.BadRequest(w, err.Error())
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Error())
	default:
		slog.Error("expense request failed", "error", err)
		response.InternalError(w, "Failed to process request")
	}
}
