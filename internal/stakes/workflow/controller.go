package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stakesapp/stakes-platform-poc/internal/stakes/registry"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/verify"
	"github.com/stakesapp/stakes-platform-poc/internal/stakes/wager"
)

// Telas do fluxo do app. Máquina de estados própria, separada da máquina
// de estados por stake (substitui a tag de view solta do front).
const (
	ScreenDashboard = "DASHBOARD"
	ScreenCreating  = "CREATING"
	ScreenVerifying = "VERIFYING"
	ScreenResolved  = "RESOLVED"
)

// transições de tela permitidas
var screenTransitions = map[string][]string{
	ScreenDashboard: {ScreenCreating, ScreenVerifying},
	ScreenCreating:  {ScreenDashboard},
	ScreenVerifying: {ScreenResolved, ScreenVerifying},
	ScreenResolved:  {ScreenDashboard},
}

var (
	// ErrNoActiveSession indica submissão de evidência sem sessão de
	// verificação ativa para aquela stake
	ErrNoActiveSession = errors.New("no active verification session")
)

// Journal é o store externo opcional; o estado vive no processo e a
// aplicação hospedeira pode anexar persistência write-behind
type Journal interface {
	StakeCreated(ctx context.Context, st *registry.Stake) error
	StakeTransition(ctx context.Context, st *registry.Stake, oldStatus, reason string) error
}

// EventPublisher publica eventos de domínio (Kafka)
type EventPublisher interface {
	PublishStakeCreated(ctx context.Context, st *registry.Stake) error
	PublishStakeResolved(ctx context.Context, st *registry.Stake, o registry.Outcome) error
}

// Dashboard é a projeção lida pela camada de apresentação
type Dashboard struct {
	Stakes []*registry.Stake
	Ledger registry.Ledger
}

// Controller orquestra os intents do usuário compondo seletor, registry e
// sessão de verificação. É o único componente que fala com registry e
// sessão juntos, e o dono do estado transiente (tela atual, sessão ativa,
// último outcome).
type Controller struct {
	log      *zap.Logger
	reg      *registry.Registry
	selector *wager.Selector
	verifier verify.EvidenceVerifier
	timeout  time.Duration

	journal Journal        // opcional
	events  EventPublisher // opcional

	mu          sync.Mutex
	screen      string
	session     *verify.Session
	lastOutcome *registry.Outcome
}

func NewController(log *zap.Logger, reg *registry.Registry, sel *wager.Selector, v verify.EvidenceVerifier, timeout time.Duration) *Controller {
	return &Controller{
		log:      log,
		reg:      reg,
		selector: sel,
		verifier: v,
		timeout:  timeout,
		screen:   ScreenDashboard,
	}
}

// AttachJournal anexa o store durável opcional
func (c *Controller) AttachJournal(j Journal) { c.journal = j }

// AttachPublisher anexa o publicador de eventos opcional
func (c *Controller) AttachPublisher(p EventPublisher) { c.events = p }

// Screen retorna a tela atual do fluxo
func (c *Controller) Screen() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

// setScreen aplica a tabela de transições; transição inválida é bug de
// orquestração, então só loga e ignora
func (c *Controller) setScreen(to string) {
	for _, allowed := range screenTransitions[c.screen] {
		if allowed == to {
			c.screen = to
			return
		}
	}
	if c.screen != to {
		c.log.Warn("screen transition not allowed",
			zap.String("from", c.screen), zap.String("to", to))
	}
}

// OnStartCreate abre a tela de criação (botão "New Stake")
func (c *Controller) OnStartCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setScreen(ScreenCreating)
}

// OnCreateStake normaliza o valor pelo seletor, cria a stake e volta ao
// dashboard. Journal e eventos são best-effort.
func (c *Controller) OnCreateStake(ctx context.Context, title, category, icon string, rawAmount float64, deadline string) (*registry.Stake, error) {
	if deadline == "" {
		deadline = "11:59 PM"
	}

	amount := c.selector.SetAmount(rawAmount)
	st, err := c.reg.Create(title, category, icon, amount, deadline)
	if err != nil {
		return nil, err
	}

	if c.journal != nil {
		if jerr := c.journal.StakeCreated(ctx, st); jerr != nil {
			c.log.Warn("journal stake created", zap.String("stakeId", st.ID), zap.Error(jerr))
		}
	}
	if c.events != nil {
		if perr := c.events.PublishStakeCreated(ctx, st); perr != nil {
			c.log.Warn("publish stake_created", zap.String("stakeId", st.ID), zap.Error(perr))
		}
	}

	c.mu.Lock()
	c.setScreen(ScreenDashboard)
	c.mu.Unlock()

	c.log.Info("stake created",
		zap.String("stakeId", st.ID),
		zap.String("title", st.Title),
		zap.Int64("wager", st.WagerAmount),
	)
	return st, nil
}

// OnRequestVerification trava a stake em VERIFYING e abre a sessão de
// verificação. Em falha nenhuma tela muda e o erro sobe para o chamador.
func (c *Controller) OnRequestVerification(ctx context.Context, stakeID string) (*registry.Stake, error) {
	st, err := c.reg.BeginVerification(stakeID)
	if err != nil {
		return nil, err
	}

	if c.journal != nil {
		if jerr := c.journal.StakeTransition(ctx, st, registry.StatusPending, "verification requested"); jerr != nil {
			c.log.Warn("journal transition", zap.String("stakeId", st.ID), zap.Error(jerr))
		}
	}

	c.mu.Lock()
	if c.screen == ScreenResolved || c.screen == ScreenCreating {
		// intents vindos direto da API podem pular o dismiss explícito
		c.setScreen(ScreenDashboard)
	}
	c.session = verify.NewSession(verify.StakeDescription{
		StakeID:  st.ID,
		Title:    st.Title,
		Category: st.Category,
	}, c.verifier, c.timeout)
	c.lastOutcome = nil
	c.setScreen(ScreenVerifying)
	c.mu.Unlock()

	c.log.Info("verification started", zap.String("stakeId", st.ID))
	return st, nil
}

// OnEvidenceSubmitted alimenta a sessão ativa com a evidência, aguarda o
// julgamento e resolve a stake. Em ErrEvidenceCapture/ErrVerificationTimeout
// a stake permanece VERIFYING e a submissão pode ser repetida.
func (c *Controller) OnEvidenceSubmitted(ctx context.Context, stakeID, evidenceRef string) (*registry.Stake, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess == nil || sess.StakeID() != stakeID {
		return nil, fmt.Errorf("%w: stake %s", ErrNoActiveSession, stakeID)
	}

	outcome, err := sess.Submit(ctx, evidenceRef)
	if err != nil {
		c.log.Warn("verification attempt failed",
			zap.String("stakeId", stakeID), zap.Error(err))
		return nil, err
	}

	st, err := c.reg.Resolve(outcome)
	if err != nil {
		return nil, err
	}

	if c.journal != nil {
		if jerr := c.journal.StakeTransition(ctx, st, registry.StatusVerifying, outcome.Result); jerr != nil {
			c.log.Warn("journal transition", zap.String("stakeId", st.ID), zap.Error(jerr))
		}
	}
	if c.events != nil {
		if perr := c.events.PublishStakeResolved(ctx, st, outcome); perr != nil {
			c.log.Warn("publish stake_resolved", zap.String("stakeId", st.ID), zap.Error(perr))
		}
	}

	c.mu.Lock()
	c.session = nil // sessão é single-use; descartada após o outcome
	c.lastOutcome = &outcome
	c.setScreen(ScreenResolved)
	c.mu.Unlock()

	c.log.Info("stake resolved",
		zap.String("stakeId", st.ID),
		zap.String("result", outcome.Result),
		zap.String("status", st.Status),
	)
	return st, nil
}

// LastOutcome expõe o outcome terminal para a tela de resultado
func (c *Controller) LastOutcome() *registry.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastOutcome == nil {
		return nil
	}
	cp := *c.lastOutcome
	return &cp
}

// OnDismissResolved fecha a tela de resultado e volta ao dashboard
func (c *Controller) OnDismissResolved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastOutcome = nil
	c.setScreen(ScreenDashboard)
}

// FindStake delega a consulta individual ao registry
func (c *Controller) FindStake(id string) (*registry.Stake, error) {
	return c.reg.Find(id)
}

// ReadDashboard monta a projeção de leitura: stakes em ordem de exibição
// mais o ledger agregado
func (c *Controller) ReadDashboard() Dashboard {
	return Dashboard{
		Stakes: c.reg.List(),
		Ledger: c.reg.Aggregate(),
	}
}
