package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueHealth interface {
	Healthy() bool
}

type HealthHandler struct {
	Store        Pinger
	Queue        QueueHealth
	Integrations map[string]bool
	StartTime    time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store Pinger, queue QueueHealth, integrations map[string]bool) *HealthHandler {
	return &HealthHandler{
		Store:        store,
		Queue:        queue,
		Integrations: integrations,
		StartTime:    time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}

	if h.Queue != nil {
		if h.Queue.Healthy() {
			deps["rabbitmq"] = "healthy"
		} else {
			deps["rabbitmq"] = "unhealthy: connection closed"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	for name, ok := range h.Integrations {
		if ok {
			deps[name] = "configured"
		} else {
			deps[name] = "not configured"
		}
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
