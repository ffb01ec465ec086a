// Package file persists user ledgers as a single JSON document on disk.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

type document struct {
	Users map[string]userDoc `json:"users"`
}

type userDoc struct {
	Transactions []transactionDoc `json:"transactions"`
	Balance      json.Number      `json:"balance"`
}

type transactionDoc struct {
	ID          int         `json:"id"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
}

// LedgerRepository implements usecase.LedgerRepository on a JSON file.
type LedgerRepository struct {
	mu       sync.Mutex
	path     string
	location *time.Location
}

// NewLedgerRepository creates a repository writing to path. Dates are read
// and written in local time.
func NewLedgerRepository(path string) *LedgerRepository {
	return &LedgerRepository{
		path:     path,
		location: time.Local,
	}
}

// Path returns the document location.
func (r *LedgerRepository) Path() string {
	return r.path
}

// Load reads the document. A missing file is an empty store, not an error.
func (r *LedgerRepository) Load(ctx context.Context) (map[string]*domain.UserLedger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]*domain.UserLedger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	return Decode(data, r.location)
}

// Save writes every ledger to a temporary file and renames it over the
// document, so readers never see a partial write.
func (r *LedgerRepository) Save(ctx context.Context, ledgers map[string]*domain.UserLedger) error {
	data, err := Encode(ledgers)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

// Encode renders ledgers as the persisted JSON document.
func Encode(ledgers map[string]*domain.UserLedger) ([]byte, error) {
	doc := document{Users: make(map[string]userDoc, len(ledgers))}

	for id, l := range ledgers {
		u := userDoc{
			Transactions: make([]transactionDoc, 0, len(l.Transactions)),
			Balance:      json.Number(l.Balance.String()),
		}
		for _, t := range l.Transactions {
			u.Transactions = append(u.Transactions, transactionDoc{
				ID:          t.ID,
				Type:        string(t.Type),
				Category:    string(t.Category),
				Amount:      json.Number(t.Amount.String()),
				Description: t.Description,
				Date:        t.Date(),
			})
		}
		doc.Users[id] = u
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode ledgers: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a persisted document. Dates are interpreted in loc.
func Decode(data []byte, loc *time.Location) (map[string]*domain.UserLedger, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ledgers: %w", err)
	}

	ids := make([]string, 0, len(doc.Users))
	for id := range doc.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make(map[string]*domain.UserLedger, len(doc.Users))
	for _, id := range ids {
		l, err := decodeUser(id, doc.Users[id], loc)
		if err != nil {
			return nil, err
		}
		out[id] = l
	}
	return out, nil
}

func decodeUser(id string, u userDoc, loc *time.Location) (*domain.UserLedger, error) {
	l := domain.NewUserLedger(id)

	balance, err := parseNumber(u.Balance)
	if err != nil {
		return nil, fmt.Errorf("user %s: balance: %w", id, err)
	}
	l.Balance = balance

	for i, td := range u.Transactions {
		t, err := decodeTransaction(td, loc)
		if err != nil {
			return nil, fmt.Errorf("user %s: transaction #%d: %w", id, i+1, err)
		}
		l.Transactions = append(l.Transactions, t)
	}
	return l, nil
}

func decodeTransaction(td transactionDoc, loc *time.Location) (domain.Transaction, error) {
	typ, err := domain.ParseTransactionType(td.Type)
	if err != nil {
		return domain.Transaction{}, err
	}

	category, err := domain.ParseCategory(typ, td.Category)
	if err != nil {
		return domain.Transaction{}, err
	}

	amount, err := parseNumber(td.Amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("amount: %w", err)
	}

	createdAt, err := time.ParseInLocation(domain.DateLayout, td.Date, loc)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("date: %w", err)
	}

	return domain.Transaction{
		ID:          td.ID,
		Type:        typ,
		Category:    category,
		Amount:      amount,
		Description: td.Description,
		CreatedAt:   createdAt,
	}, nil
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
