package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ChampneyBull/dubai-app/internal/api/apierr"
	"github.com/ChampneyBull/dubai-app/internal/api/request"
	"github.com/ChampneyBull/dubai-app/internal/api/response"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/services/approval"
	"github.com/ChampneyBull/dubai-app/internal/services/ledger"
)

// RequestHandler handles winnings request endpoints
type RequestHandler struct {
	ledger    *ledger.Service
	approvals *approval.Service
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(ledger *ledger.Service, approvals *approval.Service) *RequestHandler {
	return &RequestHandler{
		ledger:    ledger,
		approvals: approvals,
	}
}

// List handles GET /api/v1/requests
// Returns all requests, newest first. ?status=pending filters to requests
// awaiting review.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		requests []*model.WinningsRequest
		err      error
	)
	if r.URL.Query().Get("status") == string(model.StatusPending) {
		requests, err = h.ledger.PendingRequests(r.Context())
	} else {
		requests, err = h.ledger.Requests(r.Context())
	}
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RequestsFromModels(requests))
}

// Submit handles POST /api/v1/requests
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitWinningsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid amount"))
		return
	}

	created, err := h.ledger.Submit(r.Context(), model.PlayerID(req.PlayerID), amount, req.Tournament)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RequestFromModel(created))
}

// Approve handles POST /api/v1/requests/{id}/approve
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := model.RequestID(mux.Vars(r)["id"])
	if err := h.approvals.Approve(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Deny handles POST /api/v1/requests/{id}/deny
func (h *RequestHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id := model.RequestID(mux.Vars(r)["id"])
	if err := h.approvals.Deny(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}
