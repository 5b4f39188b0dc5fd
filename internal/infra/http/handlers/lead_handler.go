package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xavierca1/quiz-funnel/internal/infra/http/middleware"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

type LeadHandler struct {
	Leads       *usecase.LeadLifecycle
	rateLimiter *RateLimiter
	log         *zap.Logger
}

func NewLeadHandler(leads *usecase.LeadLifecycle, log *zap.Logger) *LeadHandler {
	return &LeadHandler{
		Leads:       leads,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
		log:         log,
	}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
	Created bool   `json:"created"`
}

func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.CaptureLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	out, err := h.Leads.Capture(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.log, err)
		return
	}

	switch {
	case out.Created:
		middleware.RecordLeadCapture("created")
	case out.Updated:
		middleware.RecordLeadCapture("updated")
	default:
		middleware.RecordLeadCapture("unchanged")
	}

	writeJSON(w, http.StatusOK, CaptureLeadResponse{
		Success: true,
		LeadID:  out.LeadID,
		Created: out.Created,
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimiter é um token bucket por IP. IPs parados há mais de idleTTL saem do mapa
// na próxima chamada de Allow.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  window * 2,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastGC) > rl.idleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastGC = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}
