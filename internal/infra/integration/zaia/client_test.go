package zaia

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

func TestNotifyPostsNameAndPhone(t *testing.T) {
	var got notifyInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zaptest.NewLogger(t))
	err := c.Notify(context.Background(), entity.Lead{FirstName: "Ana", Phone: "(11) 99999-8888"})

	require.NoError(t, err)
	assert.Equal(t, notifyInput{Name: "Ana", Phone: "11999998888"}, got)
}

func TestNotifyErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		disabled bool
	}{
		{"template disabled nested", http.StatusBadRequest, `{"error":{"code":"template_disabled"}}`, true},
		{"template disabled flat", http.StatusForbidden, `{"code":"TEMPLATE_DISABLED"}`, true},
		{"server error", http.StatusBadGateway, `upstream`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL, zaptest.NewLogger(t)).
				Notify(context.Background(), entity.Lead{FirstName: "Ana", Phone: "11999998888"})

			require.Error(t, err)
			assert.Equal(t, tt.disabled, errors.Is(err, entity.ErrTemplateDisabled))
		})
	}
}

func TestNotifyNotConfigured(t *testing.T) {
	err := NewClient("", zaptest.NewLogger(t)).Notify(context.Background(), entity.Lead{})
	assert.ErrorIs(t, err, entity.ErrNotConfigured)
}
