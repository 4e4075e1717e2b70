package trip

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

// Handler handles HTTP requests for trip operations
type Handler struct {
	service *Service
}

// NewHandler creates a new trip handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for trip endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)

	// Membership
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{memberId}", h.RemoveMember)

	// Ledger query surface
	r.Get("/{id}/balances", h.Balances)
	r.Get("/{id}/settlements", h.Settlements)
	r.Get("/{id}/summary", h.Summary)

	return r
}

// Create handles POST /trips
// @Summary      Create a new trip
// @Description  Create a trip; the caller becomes its first member
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        request body CreateTripRequest true "Trip creation request"
// @Success      201 {object} response.APIResponse{data=TripResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /trips [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.CreatorName == "" {
		response.BadRequest(w, "name and creator_name are required")
		return
	}
	if len(req.Currency) != 3 {
		response.BadRequest(w, "currency must be a 3-letter code")
		return
	}

	trip, members, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, trip.ToResponse(members))
}

// List handles GET /trips
// @Summary      List trips
// @Description  List the caller's trips with gross total and caller balance
// @Tags         trips
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]TripResponse}
// @Router       /trips [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	overviews, err := h.service.List(r.Context(), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := make([]*TripResponse, len(overviews))
	for i, o := range overviews {
		resp[i] = o.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /trips/{id}
// @Summary      Get trip by ID
// @Description  Get a trip with its members; only members can see a trip
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	trip, members, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, trip.ToResponse(members))
}

// Delete handles DELETE /trips/{id}
// @Summary      Delete a trip
// @Description  Delete a trip with all its expenses and refunds; creator only
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id} [delete]
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

	response.JSON(w, http.StatusOK, map[string]string{"message": "Trip deleted"})
}

// AddMember handles POST /trips/{id}/members
// @Summary      Add a member
// @Description  Add a member to a trip; guests get a generated id
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}

	member, err := h.service.AddMember(r.Context(), chi.URLParam(r, "id"), callerID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, &MemberResponse{MemberID: member.MemberID, Name: member.Name})
}

// RemoveMember handles DELETE /trips/{id}/members/{memberId}
// @Summary      Remove a member
// @Description  Remove a member from a trip; creator only, and only while the member has no expense or refund records
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Param        memberId path string true "Member ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{id}/members/{memberId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	err := h.service.RemoveMember(r.Context(), chi.URLParam(r, "id"), callerID, chi.URLParam(r, "memberId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// Balances handles GET /trips/{id}/balances
// @Summary      Get trip balances
// @Description  One signed balance per member; positive means owed money
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id}/balances [get]
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	summary, members, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, SummaryToResponse(summary, members).Balances)
}

// Settlements handles GET /trips/{id}/settlements
// @Summary      Get settlement suggestions
// @Description  Minimal list of payments that settles all trip debts
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id}/settlements [get]
func (h *Handler) Settlements(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	summary, members, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, SummaryToResponse(summary, members).Settlements)
}

// Summary handles GET /trips/{id}/summary
// @Summary      Get trip summary
// @Description  Balances, settlement plan, and totals in one response
// @Tags         trips
// @Produce      json
// @Param        id path string true "Trip ID"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{id}/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetMemberID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	summary, members, err := h.service.Summary(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, SummaryToResponse(summary, members))
}

var supportedCurrencies = []CurrencyResponse{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
	{Code: "THB", Symbol: "฿", Name: "Thai Baht"},
	{Code: "MXN", Symbol: "$", Name: "Mexican Peso"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
}

// Currencies handles GET /currencies. It needs no caller identity and is
// mounted outside the identity middleware.
// @Summary      List supported currencies
// @Description  Static list of currencies trips can be created in
// @Tags         currencies
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]CurrencyResponse}
// @Router       /currencies [get]
func Currencies(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, supportedCurrencies)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	var ierr *ledger.InvariantError
	switch {
	case errors.Is(err, ErrTripNotFound), errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotCreator):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrMemberAlreadyExists), errors.Is(err, ErrMemberHasRecords):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrCannotRemoveSelf):
		response.BadRequest(w, err.Error())
	case errors.As(err, &verr):
		response.BadRequest(w, verr.Error())
	case errors.As(err, &ierr):
		// A correct calculator never gets here; surface it loudly rather
		// than returning wrong financial data.
		slog.Error("ledger invariant violated", "error", ierr)
		response.InternalError(w, "Ledger invariant violated")
	default:
		slog.Error("trip request failed", "error", err)
		response.InternalError(w, "Failed to process request")
	}
}
