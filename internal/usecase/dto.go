package usecase

import (
	"time"

	"github.com/xavierca1/quiz-funnel/internal/entity"
)

type CaptureLeadInput struct {
	LeadID    string `json:"lead_id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type CaptureLeadOutput struct {
	LeadID  string `json:"lead_id"`
	Created bool   `json:"created"`
	Updated bool   `json:"updated"`
}

type UTMParams struct {
	Source   string `json:"utm_source"`
	Medium   string `json:"utm_medium"`
	Campaign string `json:"utm_campaign"`
	Content  string `json:"utm_content"`
	Term     string `json:"utm_term"`
	Src      string `json:"src"`
	Sck      string `json:"sck"`
}

type CheckoutInput struct {
	LeadID    string            `json:"lead_id"`
	Plan      string            `json:"plan"`
	FirstName string            `json:"first_name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	UTM       UTMParams         `json:"utm"`
	Answers   map[string]string `json:"answers"`
}

type CheckoutOutput struct {
	LeadID      string                `json:"lead_id"`
	CheckoutURL string                `json:"checkout_url"`
	Provider    entity.CheckoutSource `json:"provider"`
}

type SweepInput struct {
	Channel   entity.Channel
	Threshold time.Duration
}

type SweepOutput struct {
	Channel    entity.Channel `json:"channel"`
	Scanned    int            `json:"scanned"`
	Candidates int            `json:"candidates"`
	BatchResult
}

type DashboardInput struct {
	From *time.Time
	To   *time.Time
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DashboardOutput struct {
	TotalLeads     int                           `json:"total_leads"`
	Purchased      int                           `json:"purchased"`
	ConversionRate float64                       `json:"conversion_rate"`
	ZaiaSent       int                           `json:"zaia_sent"`
	RecoverySent   int                           `json:"recovery_sent"`
	BySource       map[entity.CheckoutSource]int `json:"by_source"`
	SalesCount     int                           `json:"sales_count"`
	RevenueCents   int64                         `json:"revenue_cents"`
	LeadsPerDay    []DayCount                    `json:"leads_per_day"`
	QuizCompleted  int                           `json:"quiz_completed"`
}
