package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionCookie = "funnel_session"

var ErrNoSessionSecret = errors.New("SESSION_SECRET ausente")

// SessionManager emite e valida o cookie do dashboard (JWT HS256).
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

func (m *SessionManager) Configured() bool {
	return len(m.secret) > 0
}

func (m *SessionManager) Issue() (string, time.Time, error) {
	if !m.Configured() {
		return "", time.Time{}, ErrNoSessionSecret
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (m *SessionManager) Validate(token string) error {
	if !m.Configured() {
		return ErrNoSessionSecret
	}
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject("dashboard"),
		jwt.WithTimeFunc(m.now),
	)
	return err
}

func (m *SessionManager) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Configured() {
			writeError(w, http.StatusInternalServerError, "NOT_CONFIGURED", "sessão não configurada")
			return
		}
		c, err := r.Cookie(SessionCookie)
		if err != nil || c.Value == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "login necessário")
			return
		}
		if err := m.Validate(c.Value); err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sessão inválida ou expirada")
			return
		}
		next.ServeHTTP(w, r)
	})
}
