// Package telegram connects the bot use cases to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/domain"
)

// Supported commands.
const (
	CommandStart      = "start"
	CommandAddIncome  = "add_income"
	CommandAddExpense = "add_expense"
	CommandBalance    = "balance"
	CommandReport     = "report"
	CommandAnalysis   = "analysis"
	CommandCancel     = "cancel"
)

// Update outcomes reported to Metrics.
const (
	OutcomeHandled   = "handled"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
	OutcomeFailed    = "failed"
)

// Sender delivers outbound messages. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dialogue is the multi-step transaction entry conversation.
type Dialogue interface {
	Begin(ctx context.Context, userID string, t domain.TransactionType) (domain.Step, error)
	Handle(ctx context.Context, userID, text string) (domain.Step, error)
	Cancel(ctx context.Context, userID string) (domain.Step, error)
}

// Reports answers balance, report and analysis commands.
type Reports interface {
	Balance(ctx context.Context, userID string) (domain.Summary, error)
	Report(ctx context.Context, userID string) (domain.Summary, error)
	Analysis(ctx context.Context, userID string) (*domain.Analysis, error)
}

// Deduplicator reports whether an update id is seen for the first time.
type Deduplicator interface {
	FirstSeen(ctx context.Context, updateID int) (bool, error)
}

// Metrics receives bot counters.
type Metrics interface {
	BotCommand(command string)
	BotUpdate(outcome string)
}

// HandlerConfig holds the dependencies of Handler.
type HandlerConfig struct {
	Sender   Sender
	Dialogue Dialogue
	Reports  Reports
	Catalog  *Catalog
	Dedup    Deduplicator // optional
	Metrics  Metrics      // optional
	Logger   zerolog.Logger
}

// Handler turns Telegram updates into use case calls and replies.
// Updates must be handled one at a time; the dialogue relies on it.
type Handler struct {
	sender   Sender
	dialogue Dialogue
	reports  Reports
	catalog  *Catalog
	dedup    Deduplicator
	metrics  Metrics
	logger   zerolog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Catalog == nil {
		cfg.Catalog = NewCatalog()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}

	return &Handler{
		sender:   cfg.Sender,
		dialogue: cfg.Dialogue,
		reports:  cfg.Reports,
		catalog:  cfg.Catalog,
		dedup:    cfg.Dedup,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger.With().Str("component", "telegram").Logger(),
	}
}

// Run handles updates sequentially until ctx is done or updates is closed.
func (h *Handler) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	h.logger.Info().Msg("update loop started")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Msg("update loop stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram update channel closed")
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update and sends at most one reply.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		h.metrics.BotUpdate(OutcomeIgnored)
		return
	}
	// Stickers, photos and voice notes carry no text.
	if strings.TrimSpace(msg.Text) == "" {
		h.metrics.BotUpdate(OutcomeIgnored)
		return
	}

	log := h.logger.With().Int("update_id", update.UpdateID).Int64("user_id", msg.From.ID).Logger()

	if h.dedup != nil {
		first, err := h.dedup.FirstSeen(ctx, update.UpdateID)
		if err != nil {
			log.Warn().Err(err).Msg("update dedup unavailable, processing anyway")
		} else if !first {
			log.Debug().Msg("duplicate update skipped")
			h.metrics.BotUpdate(OutcomeDuplicate)
			return
		}
	}

	userID := strconv.FormatInt(msg.From.ID, 10)

	var reply string
	if msg.IsCommand() {
		reply = h.handleCommand(ctx, log, userID, msg)
	} else {
		reply = h.handleText(ctx, log, userID, msg.Text)
	}

	if reply == "" {
		h.metrics.BotUpdate(OutcomeIgnored)
		return
	}

	if _, err := h.sender.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		log.Error().Err(err).Msg("failed to send reply")
		h.metrics.BotUpdate(OutcomeFailed)
		return
	}
	h.metrics.BotUpdate(OutcomeHandled)
}

func (h *Handler) handleCommand(ctx context.Context, log zerolog.Logger, userID string, msg *tgbotapi.Message) string {
	command := msg.Command()
	log = log.With().Str("command", command).Logger()

	switch command {
	case CommandStart:
		h.metrics.BotCommand(command)
		return h.catalog.Welcome(msg.From.FirstName)

	case CommandAddIncome, CommandAddExpense:
		h.metrics.BotCommand(command)
		t := domain.TransactionTypeIncome
		if command == CommandAddExpense {
			t = domain.TransactionTypeExpense
		}
		step, err := h.dialogue.Begin(ctx, userID, t)
		if err != nil {
			log.Error().Err(err).Msg("failed to start dialogue")
			return h.catalog.InternalError()
		}
		return h.renderStep(step)

	case CommandCancel:
		h.metrics.BotCommand(command)
		step, err := h.dialogue.Cancel(ctx, userID)
		if err != nil {
			log.Error().Err(err).Msg("failed to cancel dialogue")
			return h.catalog.InternalError()
		}
		return h.renderStep(step)

	case CommandBalance:
		h.metrics.BotCommand(command)
		s, err := h.reports.Balance(ctx, userID)
		if err != nil {
			log.Error().Err(err).Msg("failed to load balance")
			return h.catalog.InternalError()
		}
		return h.catalog.Balance(s)

	case CommandReport:
		h.metrics.BotCommand(command)
		s, err := h.reports.Report(ctx, userID)
		if errors.Is(err, domain.ErrNoTransactions) {
			return h.catalog.NoReport()
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to build report")
			return h.catalog.InternalError()
		}
		return h.catalog.Report(s)

	case CommandAnalysis:
		h.metrics.BotCommand(command)
		a, err := h.reports.Analysis(ctx, userID)
		if errors.Is(err, domain.ErrNoTransactions) {
			return h.catalog.NoAnalysis()
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to build analysis")
			return h.catalog.InternalError()
		}
		return h.catalog.Analysis(a)

	default:
		log.Debug().Msg("unknown command ignored")
		return ""
	}
}

func (h *Handler) handleText(ctx context.Context, log zerolog.Logger, userID, text string) string {
	step, err := h.dialogue.Handle(ctx, userID, text)
	if err != nil {
		log.Error().Err(err).Msg("dialogue failed")
		if step.Kind == domain.StepFailed {
			return h.catalog.RecordFailed()
		}
		return h.catalog.InternalError()
	}
	return h.renderStep(step)
}

// renderStep returns "" for steps that need no reply.
func (h *Handler) renderStep(step domain.Step) string {
	switch step.Kind {
	case domain.StepPromptCategory:
		return h.catalog.CategoryPrompt(step.Type, step.Categories)
	case domain.StepRetryCategory:
		return h.catalog.RetryCategory(step.Categories)
	case domain.StepPromptAmount:
		return h.catalog.PromptAmount()
	case domain.StepRetryAmount:
		return h.catalog.RetryAmount()
	case domain.StepNonPositiveAmount:
		return h.catalog.NonPositiveAmount()
	case domain.StepPromptDescription:
		return h.catalog.PromptDescription()
	case domain.StepRecorded:
		if step.Transaction == nil {
			return h.catalog.RecordFailed()
		}
		return h.catalog.Recorded(*step.Transaction)
	case domain.StepFailed:
		return h.catalog.RecordFailed()
	case domain.StepCancelled:
		return h.catalog.Cancelled()
	default:
		return ""
	}
}

type nopMetrics struct{}

func (nopMetrics) BotCommand(string) {}
func (nopMetrics) BotUpdate(string)  {}
