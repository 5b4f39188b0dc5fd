package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/quiz-funnel/internal/entity"
	"github.com/xavierca1/quiz-funnel/internal/infra/logger"
)

// LeadLifecycle concentra as transições de estado do lead na planilha de automação:
// captura, compra e notificação de abandono.
type LeadLifecycle struct {
	Repo  entity.LeadRepositoryInterface
	locks *LeadLocks
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewLeadLifecycle(repo entity.LeadRepositoryInterface, locks *LeadLocks, log *zap.Logger) *LeadLifecycle {
	if locks == nil {
		locks = NewLeadLocks()
	}
	return &LeadLifecycle{
		Repo:  repo,
		locks: locks,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Capture grava o lead do quiz. Se já existe linha para o e-mail/telefone, só
// preenche campos vazios; o que já está na planilha nunca é sobrescrito.
func (uc *LeadLifecycle) Capture(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if errs := ValidateCaptureLeadInput(input); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	email := entity.NormalizeEmail(input.Email)
	phone := entity.LocalPhone(input.Phone)
	name := strings.TrimSpace(input.FirstName)

	unlock := uc.locks.Lock(leadKey(email, phone))
	defer unlock()

	lead, idx, err := uc.Repo.Find(ctx, email, phone)
	if errors.Is(err, entity.ErrLeadNotFound) {
		id := strings.TrimSpace(input.LeadID)
		if id == "" {
			id = uc.newID()
		}
		newLead := &entity.Lead{
			ID:        id,
			FirstName: name,
			Email:     email,
			Phone:     phone,
			CreatedAt: uc.now().UTC(),
		}
		if err := uc.Repo.Append(ctx, newLead); err != nil {
			return nil, storageError("falha ao gravar lead", err)
		}

		uc.log.Info("🆕 Lead capturado",
			zap.String("lead_id", id),
			zap.String("email", logger.MaskEmail(email)))
		return &CaptureLeadOutput{LeadID: id, Created: true}, nil
	}
	if err != nil {
		return nil, storageError("falha ao buscar lead", err)
	}

	cells := map[entity.LeadColumn]string{}
	if lead.ID == "" {
		lead.ID = strings.TrimSpace(input.LeadID)
		if lead.ID == "" {
			lead.ID = uc.newID()
		}
		cells[entity.ColLeadID] = lead.ID
	}
	if lead.FirstName == "" && name != "" {
		cells[entity.ColFirstName] = name
	}
	if lead.Email == "" && email != "" {
		cells[entity.ColEmail] = email
	}
	if lead.Phone == "" && phone != "" {
		cells[entity.ColPhone] = phone
	}
	if lead.CreatedAt.IsZero() {
		cells[entity.ColCreatedAt] = entity.FormatTime(uc.now())
	}

	if len(cells) == 0 {
		return &CaptureLeadOutput{LeadID: lead.ID}, nil
	}

	if err := uc.Repo.UpdateCells(ctx, idx, cells); err != nil {
		return nil, storageError("falha ao completar lead", err)
	}

	uc.log.Info("✏️ Lead existente completado",
		zap.String("lead_id", lead.ID),
		zap.Int("row", idx+2),
		zap.Int("cells", len(cells)))
	return &CaptureLeadOutput{LeadID: lead.ID, Updated: true}, nil
}

// MarkPurchased marca a compra. Chamar de novo para um lead já comprado não escreve
// nada e mantém o purchase_at original. changed diz se houve escrita.
func (uc *LeadLifecycle) MarkPurchased(ctx context.Context, email, phone string, source entity.CheckoutSource) (lead *entity.Lead, changed bool, err error) {
	unlock := uc.locks.Lock(leadKey(email, phone))
	defer unlock()

	lead, idx, err := uc.Repo.Find(ctx, email, phone)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, false, err
		}
		return nil, false, storageError("falha ao buscar lead", err)
	}

	if lead.Purchased {
		uc.log.Info("🔁 Compra já registrada para o lead",
			zap.String("lead_id", lead.ID),
			zap.String("source", string(lead.CheckoutSource)))
		return lead, false, nil
	}

	now := uc.now().UTC()
	cells := map[entity.LeadColumn]string{
		entity.ColPurchased:      entity.FormatBool(true),
		entity.ColCheckoutSource: string(source),
		entity.ColPurchaseAt:     entity.FormatTime(now),
	}
	if err := uc.Repo.UpdateCells(ctx, idx, cells); err != nil {
		return nil, false, storageError("falha ao marcar compra", err)
	}

	lead.Purchased = true
	lead.CheckoutSource = source
	lead.PurchaseAt = &now

	uc.log.Info("💰 Lead marcado como comprado",
		zap.String("lead_id", lead.ID),
		zap.String("source", string(source)))
	return lead, true, nil
}

// MarkNotified liga a flag do canal na linha index e em todas as outras linhas com
// o mesmo telefone. snapshot é a leitura usada no sweep e é atualizado no lugar.
// Devolve os índices gravados.
func (uc *LeadLifecycle) MarkNotified(ctx context.Context, snapshot []entity.Lead, index int, ch entity.Channel) ([]int, error) {
	if index < 0 || index >= len(snapshot) {
		return nil, storageError("índice de lead fora do snapshot", nil)
	}

	targets := []int{index}
	for _, i := range entity.PhoneSiblings(snapshot, snapshot[index].Phone) {
		if i != index && !snapshot[i].Notified(ch) {
			targets = append(targets, i)
		}
	}

	cells := map[entity.LeadColumn]string{ch.Column(): entity.FormatBool(true)}
	written := make([]int, 0, len(targets))
	for _, i := range targets {
		if err := uc.Repo.UpdateCells(ctx, i, cells); err != nil {
			return written, storageError("falha ao marcar notificação", err)
		}
		snapshot[i].SetNotified(ch)
		written = append(written, i)
	}

	if len(written) > 1 {
		uc.log.Debug("📞 Flag propagada para linhas com o mesmo telefone",
			zap.String("channel", string(ch)),
			zap.Ints("rows", written))
	}
	return written, nil
}
