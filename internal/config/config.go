package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"LOG_FORMAT" default:"json"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Planilha
	StoreBackend       string `envconfig:"STORE_BACKEND" default:"sheets"` // sheets | sqlite | memory
	SQLitePath         string `envconfig:"SQLITE_PATH" default:"funnel.db"`
	SheetsID           string `envconfig:"GOOGLE_SHEETS_ID"`
	ServiceAccountJSON string `envconfig:"GOOGLE_SERVICE_ACCOUNT_JSON"`
	ClientEmail        string `envconfig:"GOOGLE_CLIENT_EMAIL"`
	PrivateKey         string `envconfig:"GOOGLE_PRIVATE_KEY"`
	SheetAutomation    string `envconfig:"SHEET_AUTOMATION" default:"Automacao"`
	SheetQuiz          string `envconfig:"SHEET_QUIZ" default:"Respostas"`
	SheetSales         string `envconfig:"SHEET_SALES" default:"Vendas"`
	SheetTimezone      string `envconfig:"SHEET_TIMEZONE" default:"America/Sao_Paulo"`

	// Acesso
	DashboardPassword string `envconfig:"DASHBOARD_PASSWORD"`
	SessionSecret     string `envconfig:"SESSION_SECRET"`
	CookieSecure      bool   `envconfig:"COOKIE_SECURE" default:"true"`
	CronSecret        string `envconfig:"CRON_SECRET"`

	// Webhooks de venda
	HublaWebhookToken  string `envconfig:"HUBLA_WEBHOOK_TOKEN"`
	CaktoWebhookSecret string `envconfig:"CAKTO_WEBHOOK_SECRET"`
	CaktoClientID      string `envconfig:"CAKTO_CLIENT_ID"`
	CaktoClientSecret  string `envconfig:"CAKTO_CLIENT_SECRET"`
	CaktoAPIURL        string `envconfig:"CAKTO_API_URL" default:"https://api.cakto.com.br"`

	// Automação de abandono
	ZaiaWebhookURL           string        `envconfig:"ZAIA_WEBHOOK_URL"`
	ZaiaThresholdMinutes     int           `envconfig:"ZAIA_THRESHOLD_MINUTES" default:"5"`
	RecoveryThresholdMinutes int           `envconfig:"RECOVERY_THRESHOLD_MINUTES" default:"30"`
	WhatsAppAccessToken      string        `envconfig:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppPhoneID          string        `envconfig:"WHATSAPP_PHONE_ID"`
	WhatsAppTemplate         string        `envconfig:"WHATSAPP_TEMPLATE" default:"recuperacao_checkout"`
	WhatsAppAPIURL           string        `envconfig:"WHATSAPP_API_URL" default:"https://graph.facebook.com/v21.0"`
	DispatchDelay            time.Duration `envconfig:"DISPATCH_DELAY" default:"150ms"`
	SweepInterval            time.Duration `envconfig:"SWEEP_INTERVAL" default:"0"`

	// Checkout
	CheckoutProvider    string   `envconfig:"CHECKOUT_PROVIDER" default:"proprio"`
	CheckoutProprioURLs PlanURLs `envconfig:"CHECKOUT_PROPRIO_URLS"`
	CheckoutHublaURLs   PlanURLs `envconfig:"CHECKOUT_HUBLA_URLS"`

	// Fila e e-mail
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`
	MailHost    string `envconfig:"MAIL_HOST"`
	MailPort    int    `envconfig:"MAIL_PORT" default:"587"`
	MailUser    string `envconfig:"MAIL_USER"`
	MailPass    string `envconfig:"MAIL_PASS"`
	MailFrom    string `envconfig:"MAIL_FROM" default:"nao-responda@dietadoquiz.com.br"`

	OTelEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Environment  string `envconfig:"ENVIRONMENT" default:"production"`
}

// PlanURLs vem no formato "mensal=https://...,trimestral=https://...".
type PlanURLs map[string]string

func (p *PlanURLs) Decode(value string) error {
	out := PlanURLs{}
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return fmt.Errorf("item de plano inválido: %q", pair)
		}
		out[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	*p = out
	return nil
}

// Load lê o .env (quando existe) e depois as variáveis de ambiente.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) ZaiaThreshold() time.Duration {
	return time.Duration(c.ZaiaThresholdMinutes) * time.Minute
}

func (c Config) RecoveryThreshold() time.Duration {
	return time.Duration(c.RecoveryThresholdMinutes) * time.Minute
}
