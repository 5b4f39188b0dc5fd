package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

type DashboardHandler struct {
	Dashboard *usecase.DashboardUseCase
	log       *zap.Logger
}

func NewDashboardHandler(uc *usecase.DashboardUseCase, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: uc, log: log}
}

func (h *DashboardHandler) Handle(w http.ResponseWriter, r *http.Request) {
	input, errs := usecase.ParseDateFilter(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if len(errs) > 0 {
		writeUseCaseError(w, h.log, usecase.NewValidationError(errs))
		return
	}

	out, err := h.Dashboard.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    out,
	})
}
