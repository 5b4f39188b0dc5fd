package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

type CheckoutHandler struct {
	Router *usecase.CheckoutRouter
	log    *zap.Logger
}

func NewCheckoutHandler(router *usecase.CheckoutRouter, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{Router: router, log: log}
}

func (h *CheckoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.Router.Route(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
