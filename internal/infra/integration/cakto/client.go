package cakto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/tokencache"
)

var ErrOrderNotFound = errors.New("pedido não encontrado na cakto")

type Client struct {
	HTTPClient   *http.Client
	BaseURL      string
	ClientID     string
	ClientSecret string

	tokens *tokencache.Cache
	log    *zap.Logger
}

// NewClient recebe o cache de token de fora; o mesmo cache pode ser
// compartilhado entre clientes do processo.
func NewClient(baseURL, clientID, clientSecret string, tokens *tokencache.Cache, log *zap.Logger) *Client {
	return &Client{
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		tokens:       tokens,
		log:          log,
	}
}

func (c *Client) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (c *Client) EnsureAuthenticated(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}
	if !c.Configured() {
		return "", fmt.Errorf("cakto: CAKTO_CLIENT_ID/SECRET ausentes: %w", entity.ErrNotConfigured)
	}

	c.log.Info("🔄 [Cakto] Renovando token...")

	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/public_api/token/", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("erro request auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("❌ [Cakto] Erro Auth", zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
		return "", fmt.Errorf("erro auth cakto: status %d", resp.StatusCode)
	}

	var data tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("erro decode auth: %w", err)
	}

	exp := data.ExpiresIn
	if exp == 0 {
		exp = 3600 // Default 1h
	}
	c.tokens.Set(data.AccessToken, time.Duration(exp)*time.Second)

	c.log.Info("✅ [Cakto] Token renovado com sucesso!")
	return data.AccessToken, nil
}

// GetOrder busca o pedido para completar os dados do comprador quando o webhook
// chega sem e-mail ou telefone.
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	token, err := c.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/public_api/orders/"+url.PathEscape(id)+"/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha request cakto: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// token revogado antes do prazo; a próxima chamada renova
		c.tokens.Invalidate()
		return nil, fmt.Errorf("cakto: token recusado")
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrOrderNotFound
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("erro cakto (%d): %s", resp.StatusCode, string(body))
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("erro decode pedido: %w", err)
	}
	return &order, nil
}
