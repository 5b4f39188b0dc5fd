package zaia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

// Client dispara o fluxo de abandono da Zaia via webhook.
type Client struct {
	webhookURL string
	http       *http.Client
	log        *zap.Logger
}

func NewClient(webhookURL string, log *zap.Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type notifyInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type errorBody struct {
	Code  string `json:"code"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (b errorBody) code() string {
	if b.Error.Code != "" {
		return b.Error.Code
	}
	return b.Code
}

func (c *Client) Notify(ctx context.Context, lead entity.Lead) error {
	if c.webhookURL == "" {
		return fmt.Errorf("zaia: ZAIA_WEBHOOK_URL ausente: %w", entity.ErrNotConfigured)
	}

	body, err := json.Marshal(notifyInput{Name: lead.FirstName, Phone: entity.NormalizePhone(lead.Phone)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("zaia: falha no webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var eb errorBody
	_ = json.Unmarshal(respBody, &eb)
	if strings.EqualFold(eb.code(), "template_disabled") {
		return fmt.Errorf("zaia: %w", entity.ErrTemplateDisabled)
	}

	c.log.Warn("⚠️ Zaia respondeu com erro",
		zap.Int("status", resp.StatusCode),
		zap.String("body", string(respBody)))
	return fmt.Errorf("zaia: status %d", resp.StatusCode)
}
