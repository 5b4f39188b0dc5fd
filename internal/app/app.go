package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	_ "time/tzdata" // fuso da planilha em imagens sem zoneinfo

	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/config"
	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/database"
	"github.com/xavierca1/quiz-funnel/internal/infra/integration/cakto"
	"github.com/xavierca1/quiz-funnel/internal/infra/integration/whatsapp"
	"github.com/xavierca1/quiz-funnel/internal/infra/integration/zaia"
	"github.com/xavierca1/quiz-funnel/internal/infra/mail"
	"github.com/xavierca1/quiz-funnel/internal/infra/queue"
	"github.com/xavierca1/quiz-funnel/internal/infra/sheets"
	"github.com/xavierca1/quiz-funnel/internal/infra/tokencache"
	"github.com/xavierca1/quiz-funnel/internal/usecase"
)

// Store é o backend de linhas com health check.
type Store interface {
	entity.RowStore
	Ping(ctx context.Context) error
}

// App junta repositórios, integrações e casos de uso. Usado pela API e pelo funnelctl.
type App struct {
	Config config.Config
	Log    *zap.Logger

	Store  Store
	Leads  *database.LeadRepository
	Quiz   *database.QuizRepository
	Sales  *database.SaleRepository
	Rabbit *queue.RabbitMQ

	Zaia     *zaia.Client
	WhatsApp *whatsapp.Client
	Cakto    *cakto.Client

	Lifecycle  *usecase.LeadLifecycle
	Sweep      *usecase.SweepUseCase
	Checkout   *usecase.CheckoutRouter
	ConfirmUC  *usecase.ConfirmSaleUseCase
	RecordSale *usecase.RecordSaleUseCase
	Dashboard  *usecase.DashboardUseCase

	db *sql.DB
}

// New monta tudo a partir da configuração. withQueue=false publica as vendas
// direto no ledger, mesmo com RABBITMQ_URL definido (usado pelo CLI).
func New(ctx context.Context, cfg config.Config, log *zap.Logger, withQueue bool) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if loc, err := time.LoadLocation(cfg.SheetTimezone); err != nil {
		log.Warn("⚠️ SHEET_TIMEZONE inválido, usando -03:00", zap.String("tz", cfg.SheetTimezone), zap.Error(err))
	} else {
		entity.SetSheetLocation(loc)
	}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	// 1. Repositórios
	a.Leads = database.NewLeadRepository(a.Store, cfg.SheetAutomation)
	a.Quiz = database.NewQuizRepository(a.Store, cfg.SheetQuiz)
	a.Sales = database.NewSaleRepository(a.Store, cfg.SheetSales)

	// 2. Integrações
	a.Zaia = zaia.NewClient(cfg.ZaiaWebhookURL, log)
	a.WhatsApp = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, cfg.WhatsAppTemplate, log)
	a.Cakto = cakto.NewClient(cfg.CaktoAPIURL, cfg.CaktoClientID, cfg.CaktoClientSecret, tokencache.New(time.Minute), log)

	var emailService usecase.EmailService
	if cfg.MailHost != "" {
		emailService = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	} else {
		log.Warn("📭 MAIL_HOST ausente, e-mail de confirmação desativado")
	}

	// 3. Casos de uso
	a.Lifecycle = usecase.NewLeadLifecycle(a.Leads, usecase.NewLeadLocks(), log)
	dispatcher := usecase.NewDispatcher(map[entity.Channel]usecase.Notifier{
		entity.ChannelZaia:     a.Zaia,
		entity.ChannelRecovery: a.WhatsApp,
	}, a.Lifecycle, cfg.DispatchDelay, log)
	a.Sweep = usecase.NewSweepUseCase(a.Leads, dispatcher, log)

	a.Checkout = usecase.NewCheckoutRouter(
		entity.ParseCheckoutSource(cfg.CheckoutProvider),
		usecase.PlanCatalog{
			entity.SourceProprio: cfg.CheckoutProprioURLs,
			entity.SourceHubla:   cfg.CheckoutHublaURLs,
		},
		a.Quiz, log)

	a.RecordSale = usecase.NewRecordSaleUseCase(a.Sales, emailService, log)
	a.Dashboard = usecase.NewDashboardUseCase(a.Leads, a.Quiz, a.Sales)

	// 4. Fila de vendas
	var producer usecase.SaleQueue = queue.NewInlineProducer(a.RecordSale)
	if withQueue && cfg.RabbitMQURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Rabbit = rabbit
		producer = queue.NewProducer(rabbit.Ch)
	}

	var orders usecase.OrderLookup
	if a.Cakto.Configured() {
		orders = a.Cakto
	}
	a.ConfirmUC = usecase.NewConfirmSaleUseCase(a.Lifecycle, producer, orders, log)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.StoreBackend {
	case "sheets":
		client, err := sheets.NewClient(ctx, cfg.SheetsID, sheets.Credentials{
			ServiceAccountJSON: cfg.ServiceAccountJSON,
			ClientEmail:        cfg.ClientEmail,
			PrivateKey:         cfg.PrivateKey,
		})
		if err != nil {
			return fmt.Errorf("google sheets: %w", err)
		}
		a.Store = client
	case "sqlite":
		db, err := database.NewDBConnection(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		store, err := database.NewSQLiteRowStore(ctx, db)
		if err != nil {
			db.Close()
			return fmt.Errorf("sqlite: %w", err)
		}
		a.db = db
		a.Store = store
	case "memory":
		a.Store = database.NewMemoryStore()
	default:
		return fmt.Errorf("STORE_BACKEND inválido: %q", cfg.StoreBackend)
	}

	a.Log.Info("🗄️ Backend de planilha pronto", zap.String("backend", cfg.StoreBackend))
	return nil
}

// Integrations lista o que está configurado, para o /health.
func (a *App) Integrations() map[string]bool {
	return map[string]bool{
		"zaia":     a.Config.ZaiaWebhookURL != "",
		"whatsapp": a.Config.WhatsAppAccessToken != "" && a.Config.WhatsAppPhoneID != "",
		"cakto":    a.Cakto.Configured(),
		"mail":     a.Config.MailHost != "",
	}
}

func (a *App) Close() {
	if a.Rabbit != nil {
		a.Rabbit.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
