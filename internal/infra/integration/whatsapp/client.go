package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type Client struct {
	accessToken string
	phoneID     string
	template    string
	baseURL     string
	http        *http.Client
	log         *zap.Logger
}

func NewClient(baseURL, accessToken, phoneID, template string, log *zap.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		template:    template,
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

// Notify envia o template de recuperação de checkout para o lead.
func (c *Client) Notify(ctx context.Context, lead entity.Lead) error {
	return c.SendMessage(ctx, SendMessageInput{
		PhoneNumber:  InternationalPhone(lead.Phone),
		TemplateName: c.template,
		Language:     "pt_BR",
		Parameters:   []string{lead.FirstName},
	})
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if c.accessToken == "" || c.phoneID == "" {
		return fmt.Errorf("whatsapp: ACCESS_TOKEN ou PHONE_ID ausentes: %w", entity.ErrNotConfigured)
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                input.PhoneNumber,
		"type":              "template",
		"template": map[string]interface{}{
			"name": input.TemplateName,
			"language": map[string]string{
				"code": input.Language,
			},
			"components": []map[string]interface{}{
				{
					"type":       "body",
					"parameters": convertParametersToAPI(input.Parameters),
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: erro ao enviar mensagem: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if result.Error != nil {
		if result.Error.Code == CodeTemplateDisabled || result.Error.Code == CodeTemplatePaused {
			return fmt.Errorf("whatsapp: template %s (code %d): %w",
				input.TemplateName, result.Error.Code, entity.ErrTemplateDisabled)
		}
		return fmt.Errorf("whatsapp: %s (code %d)", result.Error.Message, result.Error.Code)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("whatsapp api error: %d: %s", resp.StatusCode, string(respBody))
	}

	c.log.Debug("✅ WhatsApp: mensagem enviada", zap.String("to", input.PhoneNumber))
	return nil
}

// InternationalPhone coloca o DDI 55 em números brasileiros de 10 ou 11 dígitos.
func InternationalPhone(phone string) string {
	digits := entity.NormalizePhone(phone)
	if len(digits) == 10 || len(digits) == 11 {
		return "55" + digits
	}
	return digits
}

func convertParametersToAPI(params []string) []map[string]string {
	result := make([]map[string]string, 0, len(params))
	for _, param := range params {
		result = append(result, map[string]string{
			"type": "text",
			"text": param,
		})
	}
	return result
}
