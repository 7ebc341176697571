package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ChampneyBull/dubai-app/internal/api/apierr"
	"github.com/ChampneyBull/dubai-app/internal/api/middleware"
	"github.com/ChampneyBull/dubai-app/internal/api/request"
	"github.com/ChampneyBull/dubai-app/internal/api/response"
	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/services/session"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	sessions *session.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Service) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

// LoginPIN handles POST /api/v1/auth/pin
func (h *AuthHandler) LoginPIN(w http.ResponseWriter, r *http.Request) {
	var req request.PINLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.PlayerID == 0 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player_id is required"))
		return
	}
	if !model.ValidPIN(req.PIN) {
		apierr.WriteError(w, apierr.NewInvalidRequestError("pin must be 4 digits"))
		return
	}

	sess, err := h.sessions.LoginPIN(r.Context(), model.PlayerID(req.PlayerID), req.PIN)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(sess))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess != nil {
		if err := h.sessions.Logout(r.Context(), sess.Token); err != nil {
			apierr.WriteError(w, err)
			return
		}
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}
