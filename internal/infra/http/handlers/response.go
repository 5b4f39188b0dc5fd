package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

type errorBody struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeUseCaseError traduz o erro do caso de uso para status HTTP.
func writeUseCaseError(w http.ResponseWriter, log *zap.Logger, err error) {
	if de, ok := usecase.AsDomainError(err); ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
			Code:    de.Code,
			Message: de.Message,
			Fields:  de.Fields,
		}})
		return
	}

	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "lead não encontrado",
		})
	case errors.Is(err, entity.ErrNotConfigured):
		log.Error("⚙️ Integração sem configuração", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "NOT_CONFIGURED", "integração não configurada")
	default:
		if te, ok := usecase.AsTechnicalError(err); ok {
			log.Error("❌ Falha de infraestrutura", zap.String("code", te.Code), zap.Error(err))
			writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Message)
			return
		}
		log.Error("❌ Erro interno", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
	}
}
