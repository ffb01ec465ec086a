package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DialogueState is the step a transaction-entry conversation is waiting on.
type DialogueState string

const (
	StateAwaitingCategory    DialogueState = "awaiting_category"
	StateAwaitingAmount      DialogueState = "awaiting_amount"
	StateAwaitingDescription DialogueState = "awaiting_description"
)

// Session is the transient, per-user state of a transaction-entry conversation.
type Session struct {
	UserID    string          `json:"user_id"`
	State     DialogueState   `json:"state"`
	Type      TransactionType `json:"transaction_type"`
	Category  Category        `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	StartedAt time.Time       `json:"started_at"`
}

// NewSession starts a conversation for type t waiting on the category.
func NewSession(userID string, t TransactionType, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		State:     StateAwaitingCategory,
		Type:      t,
		Amount:    decimal.Zero,
		StartedAt: now,
	}
}

// StepKind tells the transport what happened after a dialogue input.
type StepKind string

const (
	StepPromptCategory    StepKind = "prompt_category"
	StepRetryCategory     StepKind = "retry_category"
	StepPromptAmount      StepKind = "prompt_amount"
	StepRetryAmount       StepKind = "retry_amount"
	StepNonPositiveAmount StepKind = "non_positive_amount"
	StepPromptDescription StepKind = "prompt_description"
	StepRecorded          StepKind = "recorded"
	StepFailed            StepKind = "failed"
	StepCancelled         StepKind = "cancelled"
	StepIdle              StepKind = "idle"
)

// Step is the outcome of feeding one input to the dialogue.
type Step struct {
	Kind        StepKind
	Type        TransactionType
	Categories  []Category
	Transaction *Transaction
}

// Terminal reports whether the conversation ended with this step.
func (s Step) Terminal() bool {
	switch s.Kind {
	case StepRecorded, StepFailed, StepCancelled:
		return true
	}
	return false
}
