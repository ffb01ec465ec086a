package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/domain"
)

// DialogueUseCase drives the category → amount → description conversation
// that collects a transaction across several messages.
//
// Inputs for one user must be handled one at a time; the session store is
// not locked across Get and Put.
type DialogueUseCase struct {
	sessions SessionStore
	recorder TransactionRecorder
	metrics  MetricsRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDialogueUseCase creates a new DialogueUseCase.
func NewDialogueUseCase(sessions SessionStore, recorder TransactionRecorder, metrics MetricsRecorder, logger zerolog.Logger) *DialogueUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &DialogueUseCase{
		sessions: sessions,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger.With().Str("component", "dialogue").Logger(),
		now:      time.Now,
	}
}

// Begin starts a new entry conversation for type t. Any unfinished session of
// the same user is discarded.
func (uc *DialogueUseCase) Begin(ctx context.Context, userID string, t domain.TransactionType) (domain.Step, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.Step{}, err
	}
	if !t.Valid() {
		return domain.Step{}, fmt.Errorf("%w: %q", domain.ErrInvalidTransactionType, t)
	}

	if err := uc.sessions.Put(ctx, domain.NewSession(userID, t, uc.now())); err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: t}), fmt.Errorf("start session: %w", err)
	}

	uc.logger.Debug().Str("user_id", userID).Str("type", string(t)).Msg("session started")

	return uc.step(domain.Step{
		Kind:       domain.StepPromptCategory,
		Type:       t,
		Categories: domain.Categories(t),
	}), nil
}

// Handle feeds one free-text message to the user's session. Without an active
// session the message is ignored and a StepIdle is returned.
func (uc *DialogueUseCase) Handle(ctx context.Context, userID, text string) (domain.Step, error) {
	s, err := uc.sessions.Get(ctx, userID)
	if errors.Is(err, domain.ErrNoSession) {
		return domain.Step{Kind: domain.StepIdle}, nil
	}
	if err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed}), fmt.Errorf("load session: %w", err)
	}

	switch s.State {
	case domain.StateAwaitingCategory:
		return uc.handleCategory(ctx, s, text)
	case domain.StateAwaitingAmount:
		return uc.handleAmount(ctx, s, text)
	case domain.StateAwaitingDescription:
		return uc.handleDescription(ctx, s, text)
	default:
		uc.logger.Error().Str("user_id", userID).Str("state", string(s.State)).Msg("session in unknown state")
		_ = uc.sessions.Delete(ctx, userID)
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: s.Type}), nil
	}
}

// Cancel discards the user's session. StepIdle is returned when there was none.
func (uc *DialogueUseCase) Cancel(ctx context.Context, userID string) (domain.Step, error) {
	s, err := uc.sessions.Get(ctx, userID)
	if errors.Is(err, domain.ErrNoSession) {
		return domain.Step{Kind: domain.StepIdle}, nil
	}
	if err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed}), fmt.Errorf("load session: %w", err)
	}

	if err := uc.sessions.Delete(ctx, userID); err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: s.Type}), fmt.Errorf("delete session: %w", err)
	}

	uc.logger.Debug().Str("user_id", userID).Str("state", string(s.State)).Msg("session cancelled")

	return uc.step(domain.Step{Kind: domain.StepCancelled, Type: s.Type}), nil
}

func (uc *DialogueUseCase) handleCategory(ctx context.Context, s *domain.Session, text string) (domain.Step, error) {
	category, err := domain.CategoryByCode(s.Type, text)
	if err != nil {
		return uc.step(domain.Step{
			Kind:       domain.StepRetryCategory,
			Type:       s.Type,
			Categories: domain.Categories(s.Type),
		}), nil
	}

	s.Category = category
	s.State = domain.StateAwaitingAmount
	if err := uc.sessions.Put(ctx, s); err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: s.Type}), fmt.Errorf("save session: %w", err)
	}

	return uc.step(domain.Step{Kind: domain.StepPromptAmount, Type: s.Type}), nil
}

func (uc *DialogueUseCase) handleAmount(ctx context.Context, s *domain.Session, text string) (domain.Step, error) {
	amount, err := domain.ParseAmount(text)
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return uc.step(domain.Step{Kind: domain.StepNonPositiveAmount, Type: s.Type}), nil
	case err != nil:
		return uc.step(domain.Step{Kind: domain.StepRetryAmount, Type: s.Type}), nil
	}

	s.Amount = amount
	s.State = domain.StateAwaitingDescription
	if err := uc.sessions.Put(ctx, s); err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: s.Type}), fmt.Errorf("save session: %w", err)
	}

	return uc.step(domain.Step{Kind: domain.StepPromptDescription, Type: s.Type}), nil
}

func (uc *DialogueUseCase) handleDescription(ctx context.Context, s *domain.Session, text string) (domain.Step, error) {
	// The conversation ends here whatever the outcome.
	if err := uc.sessions.Delete(ctx, s.UserID); err != nil {
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: s.Type}), fmt.Errorf("delete session: %w", err)
	}

	t, err := uc.recorder.AddTransaction(ctx, AddTransactionInput{
		UserID:      s.UserID,
		Type:        s.Type,
		Category:    s.Category,
		Amount:      s.Amount,
		Description: text,
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("user_id", s.UserID).Msg("failed to record transaction")
		return uc.step(domain.Step{Kind: domain.StepFailed, Type: s.Type}), nil
	}

	return uc.step(domain.Step{Kind: domain.StepRecorded, Type: s.Type, Transaction: t}), nil
}

func (uc *DialogueUseCase) step(s domain.Step) domain.Step {
	uc.metrics.DialogueStep(s.Kind)
	return s
}
