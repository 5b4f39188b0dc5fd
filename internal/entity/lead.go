package entity

import (
	"context"
	"strings"
	"time"
)

type CheckoutSource string

const (
	SourceUnset   CheckoutSource = ""
	SourceHubla   CheckoutSource = "hubla"
	SourceProprio CheckoutSource = "proprio"
)

func ParseCheckoutSource(s string) CheckoutSource {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hubla":
		return SourceHubla
	case "proprio", "próprio", "cakto":
		return SourceProprio
	default:
		return SourceUnset
	}
}

// Channel identifica o canal de notificação de abandono e a coluna que marca o envio.
type Channel string

const (
	ChannelZaia     Channel = "zaia"
	ChannelRecovery Channel = "recovery"
)

func (c Channel) Valid() bool {
	return c == ChannelZaia || c == ChannelRecovery
}

type LeadState string

const (
	StateNew       LeadState = "NEW"
	StateCaptured  LeadState = "CAPTURED"
	StateNotified  LeadState = "ABANDONED_NOTIFIED"
	StatePurchased LeadState = "PURCHASED"
)

// Lead é uma linha da planilha de automação.
type Lead struct {
	ID             string         `json:"lead_id"`
	FirstName      string         `json:"first_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	CreatedAt      time.Time      `json:"created_at"`
	Purchased      bool           `json:"purchased"`
	ZaiaSent       bool           `json:"zaia_sent"`
	CheckoutSource CheckoutSource `json:"checkout_source"`
	PurchaseAt     *time.Time     `json:"purchase_at,omitempty"`
	RecoverySent   bool           `json:"recovery_sent"`
}

func (l *Lead) State() LeadState {
	switch {
	case l.Purchased:
		return StatePurchased
	case l.ZaiaSent || l.RecoverySent:
		return StateNotified
	case l.Email == "" && l.Phone == "":
		return StateNew
	default:
		return StateCaptured
	}
}

func (l *Lead) Notified(ch Channel) bool {
	if ch == ChannelRecovery {
		return l.RecoverySent
	}
	return l.ZaiaSent
}

func (l *Lead) SetNotified(ch Channel) {
	if ch == ChannelRecovery {
		l.RecoverySent = true
		return
	}
	l.ZaiaSent = true
}

// LeadColumn é o índice (0-based) da coluna na planilha de automação.
type LeadColumn int

const (
	ColLeadID LeadColumn = iota
	ColFirstName
	ColEmail
	ColPhone
	ColCreatedAt
	ColPurchased
	ColZaiaSent
	ColCheckoutSource
	ColPurchaseAt
	ColRecoverySent

	LeadColumnCount = int(ColRecoverySent) + 1
)

var LeadHeader = []string{
	"lead_id", "FirstName", "email", "phone", "created_at",
	"purchased", "zaia_sent", "checkout_source", "purchase_at", "recovery_sent",
}

func (c Channel) Column() LeadColumn {
	if c == ChannelRecovery {
		return ColRecoverySent
	}
	return ColZaiaSent
}

type LeadRepositoryInterface interface {
	List(ctx context.Context) ([]Lead, error)
	Find(ctx context.Context, email, phone string) (*Lead, int, error)
	Append(ctx context.Context, lead *Lead) error
	UpdateCells(ctx context.Context, index int, cells map[LeadColumn]string) error
}
