// Package testutil provides in-memory repository fakes mirroring the
// conditional-update semantics of the postgres implementations.
package testutil

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Zoker94/escrow-room-service/internal/domain"
)

type InMemoryTransactionRepo struct {
	mu  sync.Mutex
	txs map[string]*domain.Transaction
}

func NewInMemoryTransactionRepo() *InMemoryTransactionRepo {
	return &InMemoryTransactionRepo{txs: make(map[string]*domain.Transaction)}
}

func (r *InMemoryTransactionRepo) CreateTransaction(tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.ID]; ok {
		return fmt.Errorf("%w: transaction %s already exists", domain.ErrConflict, tx.ID)
	}
	r.txs[tx.ID] = cloneTx(tx)
	return nil
}

func (r *InMemoryTransactionRepo) GetTransactionByID(txID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	return cloneTx(tx), nil
}

func (r *InMemoryTransactionRepo) GetTransactionByRoomID(roomID string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.RoomID == roomID {
			return cloneTx(tx), nil
		}
	}
	return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, roomID)
}

func (r *InMemoryTransactionRepo) AssignSlot(txID string, role domain.Role, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	if !tx.Slots.Vacant(role) {
		return fmt.Errorf("%w: slot %s already taken", domain.ErrConflict, role)
	}
	tx.Slots[role] = userID
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTransactionRepo) UpdateTransactionStatus(txID string, oldStatus, newStatus domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	if tx.Status != oldStatus {
		return fmt.Errorf("%w: status is %s, expected %s", domain.ErrConflict, tx.Status, oldStatus)
	}
	tx.Status = newStatus
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTransactionRepo) UpdateTransactionDetails(txID string, details *domain.TransactionDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	tx.Category = details.Category
	tx.ProductName = details.ProductName
	tx.Amount = details.Amount
	tx.FeePercent = details.FeePercent
	tx.FeeAmount = details.FeeAmount
	tx.SellerReceives = details.SellerReceives
	tx.FeeBearer = details.FeeBearer
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTransactionRepo) SetConfirmation(txID string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	switch role {
	case domain.RoleBuyer:
		tx.BuyerConfirmed = true
	case domain.RoleSeller:
		tx.SellerConfirmed = true
	default:
		return fmt.Errorf("%w: role %s cannot confirm", domain.ErrValidation, role)
	}
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTransactionRepo) SetDispute(txID string, reason string, disputedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	tx.DisputeReason = reason
	tx.DisputeAt = &disputedAt
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTransactionRepo) SetCompletedAt(txID string, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[txID]
	if !ok {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, txID)
	}
	tx.CompletedAt = &completedAt
	tx.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryTransactionRepo) FindUserTransactions(userID string, role domain.Role, statuses []domain.TransactionStatus) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range r.txs {
		if tx.Slots.Occupant(role) != userID {
			continue
		}
		for _, s := range statuses {
			if tx.Status == s {
				out = append(out, cloneTx(tx))
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryTransactionRepo) FindExpiredPending(olderThan time.Time) ([]*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range r.txs {
		if tx.Status == domain.StatusPending && tx.CreatedAt.Before(olderThan) {
			out = append(out, cloneTx(tx))
		}
	}
	return out, nil
}

func cloneTx(tx *domain.Transaction) *domain.Transaction {
	cp := *tx
	cp.Slots = make(domain.Slots, len(tx.Slots))
	for role, occupant := range tx.Slots {
		cp.Slots[role] = occupant
	}
	return &cp
}

type InMemoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func NewInMemoryAccountRepo() *InMemoryAccountRepo {
	return &InMemoryAccountRepo{accounts: make(map[string]*domain.Account)}
}

// Seed creates an account with the given balance, bypassing validation.
func (r *InMemoryAccountRepo) Seed(userID string, balance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[userID] = &domain.Account{
		UserID:    userID,
		Balance:   balance,
		KYCStatus: domain.KYCNone,
		CreatedAt: time.Now(),
	}
}

func (r *InMemoryAccountRepo) CreateAccount(account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.UserID]; ok {
		return fmt.Errorf("%w: account %s already exists", domain.ErrConflict, account.UserID)
	}
	cp := *account
	r.accounts[account.UserID] = &cp
	return nil
}

func (r *InMemoryAccountRepo) GetAccount(userID string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	cp := *acc
	return &cp, nil
}

func (r *InMemoryAccountRepo) CreditBalance(userID string, delta float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	acc.Balance += delta
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryAccountRepo) DebitBalance(userID string, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	if acc.Balance < amount {
		return fmt.Errorf("%w: balance %.2f below %.2f", domain.ErrInsufficientBalance, acc.Balance, amount)
	}
	acc.Balance -= amount
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryAccountRepo) FreezeBalance(userID, reason string, frozenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	if acc.IsBalanceFrozen {
		return fmt.Errorf("%w: account %s already frozen", domain.ErrConflict, userID)
	}
	acc.IsBalanceFrozen = true
	acc.BalanceFrozenAt = &frozenAt
	acc.BalanceFreezeReason = reason
	acc.IsSuspicious = true
	acc.SuspiciousReason = reason
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryAccountRepo) UnfreezeBalance(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	acc.IsBalanceFrozen = false
	acc.BalanceFrozenAt = nil
	acc.BalanceFreezeReason = ""
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryAccountRepo) UpdateKYCStatus(userID string, status domain.KYCStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[userID]
	if !ok {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	acc.KYCStatus = status
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryAccountRepo) ListAccounts(offset, limit int) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if offset >= len(ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	var out []*domain.Account
	for _, id := range ids[offset:end] {
		cp := *r.accounts[id]
		out = append(out, &cp)
	}
	return out, nil
}

type InMemoryFundsRepo struct {
	mu          sync.Mutex
	deposits    map[string]*domain.Deposit
	withdrawals map[string]*domain.Withdrawal
}

func NewInMemoryFundsRepo() *InMemoryFundsRepo {
	return &InMemoryFundsRepo{
		deposits:    make(map[string]*domain.Deposit),
		withdrawals: make(map[string]*domain.Withdrawal),
	}
}

func (r *InMemoryFundsRepo) CreateDeposit(deposit *domain.Deposit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *deposit
	r.deposits[deposit.ID] = &cp
	return nil
}

func (r *InMemoryFundsRepo) GetDepositByID(depositID string) (*domain.Deposit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[depositID]
	if !ok {
		return nil, fmt.Errorf("%w: deposit %s", domain.ErrNotFound, depositID)
	}
	cp := *d
	return &cp, nil
}

func (r *InMemoryFundsRepo) UpdateDepositStatus(depositID string, oldStatus, newStatus domain.FundsStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deposits[depositID]
	if !ok {
		return fmt.Errorf("%w: deposit %s", domain.ErrNotFound, depositID)
	}
	if d.Status != oldStatus {
		return fmt.Errorf("%w: deposit status is %s, expected %s", domain.ErrConflict, d.Status, oldStatus)
	}
	d.Status = newStatus
	d.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryFundsRepo) CreateWithdrawal(withdrawal *domain.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *withdrawal
	r.withdrawals[withdrawal.ID] = &cp
	return nil
}

func (r *InMemoryFundsRepo) GetWithdrawalByID(withdrawalID string) (*domain.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[withdrawalID]
	if !ok {
		return nil, fmt.Errorf("%w: withdrawal %s", domain.ErrNotFound, withdrawalID)
	}
	cp := *w
	return &cp, nil
}

func (r *InMemoryFundsRepo) UpdateWithdrawalStatus(withdrawalID string, oldStatus, newStatus domain.FundsStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.withdrawals[withdrawalID]
	if !ok {
		return fmt.Errorf("%w: withdrawal %s", domain.ErrNotFound, withdrawalID)
	}
	if w.Status != oldStatus {
		return fmt.Errorf("%w: withdrawal status is %s, expected %s", domain.ErrConflict, w.Status, oldStatus)
	}
	w.Status = newStatus
	w.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryFundsRepo) LastWithdrawalByUser(userID string) (*domain.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *domain.Withdrawal
	for _, w := range r.withdrawals {
		if w.UserID != userID {
			continue
		}
		if last == nil || w.CreatedAt.After(last.CreatedAt) {
			last = w
		}
	}
	if last == nil {
		return nil, fmt.Errorf("%w: no withdrawals for %s", domain.ErrNotFound, userID)
	}
	cp := *last
	return &cp, nil
}

func (r *InMemoryFundsRepo) SumDepositsByUser(userID string, status domain.FundsStatus) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, d := range r.deposits {
		if d.UserID == userID && d.Status == status {
			sum += d.Amount
		}
	}
	return sum, nil
}

func (r *InMemoryFundsRepo) CountDepositsByUser(userID string, status domain.FundsStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.deposits {
		if d.UserID == userID && d.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryFundsRepo) SumWithdrawalsByUser(userID string, status domain.FundsStatus) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, w := range r.withdrawals {
		if w.UserID == userID && w.Status == status {
			sum += w.Amount
		}
	}
	return sum, nil
}

type InMemoryAuditRepo struct {
	mu      sync.Mutex
	Actions []*domain.AdminActionLog
	Alerts  []*domain.RiskAlert
}

func NewInMemoryAuditRepo() *InMemoryAuditRepo {
	return &InMemoryAuditRepo{}
}

func (r *InMemoryAuditRepo) CreateActionLog(entry *domain.AdminActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.Actions = append(r.Actions, &cp)
	return nil
}

func (r *InMemoryAuditRepo) CreateRiskAlert(alert *domain.RiskAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *alert
	r.Alerts = append(r.Alerts, &cp)
	return nil
}

func (r *InMemoryAuditRepo) ListActionLogsByTarget(userID string, limit int) ([]*domain.AdminActionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AdminActionLog
	for i := len(r.Actions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.Actions[i].TargetUserID == userID {
			cp := *r.Actions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryAuditRepo) SumUnknownSourceDeltas(userID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, entry := range r.Actions {
		if entry.TargetUserID == userID && entry.Source == domain.SourceUnknown {
			sum += entry.BalanceDelta
		}
	}
	return sum, nil
}

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []interface{}
}

func (p *RecordingPublisher) PublishEvent(key string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

func (p *RecordingPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Events)
}
