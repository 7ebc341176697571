package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ChampneyBull/dubai-app/internal/api/apierr"
	"github.com/ChampneyBull/dubai-app/internal/api/request"
	"github.com/ChampneyBull/dubai-app/internal/api/response"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/services/identity"
	"github.com/ChampneyBull/dubai-app/internal/storage"
)

// PlayerHandler handles player directory endpoints
type PlayerHandler struct {
	storage storage.Storage
	linker  *identity.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(storage storage.Storage, linker *identity.Service) *PlayerHandler {
	return &PlayerHandler{
		storage: storage,
		linker:  linker,
	}
}

// List handles GET /api/v1/players
// Returns the directory ordered by earnings descending.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.storage.ListPlayers(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModels(players))
}

// Claimable handles GET /api/v1/players/claimable
// Returns profiles a new external identity may claim.
func (h *PlayerHandler) Claimable(w http.ResponseWriter, r *http.Request) {
	players, err := h.linker.ClaimablePlayers(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayersFromModels(players))
}

// Claim handles POST /api/v1/players/{id}/claim
// Links an external identity to an unclaimed profile.
func (h *PlayerHandler) Claim(w http.ResponseWriter, r *http.Request) {
	playerID, err := playerIDFromPath(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.ClaimProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Email == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("email is required"))
		return
	}
	if req.ExternalID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("external_id is required"))
		return
	}

	player, err := h.linker.Link(r.Context(), playerID, req.Email, req.ExternalID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// playerIDFromPath parses the {id} path variable
func playerIDFromPath(r *http.Request) (model.PlayerID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.NewInvalidRequestError("invalid player id")
	}
	return model.PlayerID(id), nil
}
