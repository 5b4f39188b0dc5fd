package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/infra/http/middleware"
)

type AuthHandler struct {
	Password string
	Sessions *middleware.SessionManager
	log      *zap.Logger
}

func NewAuthHandler(password string, sessions *middleware.SessionManager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Password: password, Sessions: sessions, log: log}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Password == "" || !h.Sessions.Configured() {
		writeErrorResponse(w, http.StatusInternalServerError, "NOT_CONFIGURED", "DASHBOARD_PASSWORD ou SESSION_SECRET ausente")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Password)) != 1 {
		h.log.Warn("🔒 Senha do dashboard incorreta", zap.String("ip", getClientIP(r)))
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_PASSWORD", "senha incorreta")
		return
	}

	token, exp, err := h.Sessions.Issue()
	if err != nil {
		writeUseCaseError(w, h.log, err)
		return
	}
	h.Sessions.SetCookie(w, token, exp)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
