// Package memory is an in-process ledger store with the same contract as the
// Postgres adapter.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

var errTxDone = errors.New("memory: transaction already closed")

// Store keeps accounts, journal entries and wallet transactions in memory.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]*domain.Account
	entries       []*domain.JournalEntry
	byID          map[string]*domain.JournalEntry
	byCorrelation map[string]*domain.JournalEntry
	walletTxs     []*domain.WalletTransaction
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]*domain.Account),
		byID:          make(map[string]*domain.JournalEntry),
		byCorrelation: make(map[string]*domain.JournalEntry),
	}
}

// Tx buffers journal entries until Commit.
type Tx struct {
	store   *Store
	pending []*domain.JournalEntry
	done    bool
}

// Begin starts a new transaction.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: s}, nil
}

// Commit applies every buffered entry or none of them.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range t.pending {
		if _, exists := s.byCorrelation[e.CorrelationID]; exists {
			return domain.ErrDuplicateCorrelationID
		}
	}

	for _, e := range t.pending {
		s.entries = append(s.entries, e)
		s.byID[e.ID] = e
		s.byCorrelation[e.CorrelationID] = e
	}

	return nil
}

// Rollback discards buffered entries. Calling it after Commit is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	t.done = true
	t.pending = nil
	return nil
}

// Accounts returns an AccountRepository view of the store.
func (s *Store) Accounts() *AccountRepository {
	return &AccountRepository{store: s}
}

// Journal returns a JournalRepository view of the store.
func (s *Store) Journal() *JournalRepository {
	return &JournalRepository{store: s}
}

// Ledger returns a LedgerRepository view of the store.
func (s *Store) Ledger() *LedgerRepository {
	return &LedgerRepository{store: s}
}

// WalletTransactions returns a WalletTransactionRepository view of the store.
func (s *Store) WalletTransactions() *WalletTransactionRepository {
	return &WalletTransactionRepository{store: s}
}

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// Create adds an account. Codes are unique.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Code]; exists {
		return domain.ErrDuplicateAccountCode
	}

	cp := *account
	s.accounts[account.Code] = &cp
	return nil
}

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[code]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	cp := *a
	return &cp, nil
}

// GetByCodes returns the accounts that exist among codes.
func (r *AccountRepository) GetByCodes(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(codes))
	for _, code := range codes {
		if a, ok := s.accounts[code]; ok {
			cp := *a
			accounts = append(accounts, &cp)
		}
	}

	return accounts, nil
}

// List returns accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var accounts []*domain.Account
	for _, a := range s.accounts {
		if filter.Type != nil && a.Type != *filter.Type {
			continue
		}
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		cp := *a
		accounts = append(accounts, &cp)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })

	return paginate(accounts, filter.Limit, filter.Offset), nil
}

// SetActive changes the active flag of an account.
func (r *AccountRepository) SetActive(ctx context.Context, code string, active bool, updatedAt time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[code]
	if !ok {
		return domain.ErrAccountNotFound
	}

	a.Active = active
	a.UpdatedAt = updatedAt
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	store *Store
}

// Create buffers a validated entry in tx.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	mtx, ok := tx.(*Tx)
	if !ok || mtx.done {
		return errTxDone
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	s := r.store
	s.mu.RLock()
	_, exists := s.byCorrelation[entry.CorrelationID]
	s.mu.RUnlock()

	if exists {
		return domain.ErrDuplicateCorrelationID
	}

	for _, p := range mtx.pending {
		if p.CorrelationID == entry.CorrelationID {
			return domain.ErrDuplicateCorrelationID
		}
	}

	mtx.pending = append(mtx.pending, cloneEntry(entry))
	return nil
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

// GetByCorrelationID retrieves the entry posted for a correlation id.
func (r *JournalRepository) GetByCorrelationID(ctx context.Context, correlationID string) (*domain.JournalEntry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byCorrelation[correlationID]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

// ListLines returns matching lines ordered by entry date, entry id and line number.
func (r *JournalRepository) ListLines(ctx context.Context, filter domain.LineFilter) ([]*domain.LedgerLine, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.matchLines(filter)

	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryID != b.EntryID {
			return a.EntryID < b.EntryID
		}
		return a.LineNo < b.LineNo
	})

	return lines, nil
}

// SumByAccount aggregates matching lines per account, ordered by account code.
func (r *JournalRepository) SumByAccount(ctx context.Context, filter domain.LineFilter) ([]*domain.AccountTotal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCode := make(map[string]*domain.AccountTotal)
	for _, l := range s.matchLines(filter) {
		t, ok := byCode[l.AccountCode]
		if !ok {
			t = &domain.AccountTotal{
				AccountCode: l.AccountCode,
				AccountName: l.AccountName,
				AccountType: l.AccountType,
				Active:      s.accounts[l.AccountCode].Active,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			byCode[l.AccountCode] = t
		}
		t.Debit = t.Debit.Add(l.Debit)
		t.Credit = t.Credit.Add(l.Credit)
	}

	totals := make([]*domain.AccountTotal, 0, len(byCode))
	for _, t := range byCode {
		totals = append(totals, t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].AccountCode < totals[j].AccountCode })

	return totals, nil
}

// matchLines must be called with s.mu held.
func (s *Store) matchLines(f domain.LineFilter) []*domain.LedgerLine {
	var out []*domain.LedgerLine

	for _, e := range s.entries {
		if f.From != nil && e.EntryDate.Before(*f.From) {
			continue
		}
		if f.To != nil && e.EntryDate.After(*f.To) {
			continue
		}
		if f.Before != nil && !e.EntryDate.Before(*f.Before) {
			continue
		}

		for _, l := range e.Lines {
			account := s.accounts[l.AccountCode]
			if account == nil {
				continue
			}
			if f.AccountCode != "" && l.AccountCode != f.AccountCode {
				continue
			}
			if f.AccountType != nil && account.Type != *f.AccountType {
				continue
			}
			if !matchDimension(f.WalletID, l.WalletID) ||
				!matchDimension(f.LandlordID, l.LandlordID) ||
				!matchDimension(f.TenantID, l.TenantID) {
				continue
			}

			out = append(out, &domain.LedgerLine{
				JournalLine:   l,
				EntryDate:     e.EntryDate,
				Description:   e.Description,
				CorrelationID: e.CorrelationID,
				SourceType:    e.SourceType,
				SourceID:      e.SourceID,
				AccountName:   account.Name,
				AccountType:   account.Type,
			})
		}
	}

	return out
}

func matchDimension(want, got *string) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func cloneEntry(e *domain.JournalEntry) *domain.JournalEntry {
	cp := *e
	cp.Lines = append([]domain.JournalLine(nil), e.Lines...)
	return &cp
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// CheckConsistency returns total debits and credits over the whole ledger.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range s.entries {
		d, c := e.Totals()
		debit = debit.Add(d)
		credit = credit.Add(c)
	}

	return debit, credit, nil
}

// UnbalancedEntries returns ids of entries whose debits and credits differ.
func (r *LedgerRepository) UnbalancedEntries(ctx context.Context, limit int) ([]string, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, e := range s.entries {
		if limit > 0 && len(ids) >= limit {
			break
		}
		if d, c := e.Totals(); !d.Equal(c) {
			ids = append(ids, e.ID)
		}
	}

	return ids, nil
}

// WalletTransactionRepository implements usecase.WalletTransactionRepository.
type WalletTransactionRepository struct {
	store *Store
}

// Add records a completed wallet transaction.
func (r *WalletTransactionRepository) Add(txs ...*domain.WalletTransaction) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		cp := *tx
		s.walletTxs = append(s.walletTxs, &cp)
	}
}

// ListCompleted returns transactions created in [from, to], ordered by creation time then id.
func (r *WalletTransactionRepository) ListCompleted(ctx context.Context, from, to time.Time) ([]*domain.WalletTransaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.WalletTransaction
	for _, tx := range s.walletTxs {
		if tx.CreatedAt.Before(from) || tx.CreatedAt.After(to) {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
