package ledger

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pool-ledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used to date transactions and proposals.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the function used to mint pool, transaction and
// proposal IDs. It receives the prefix ("pool", "t" or "wp").
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(e *Engine) { e.newID = gen }
}

// Engine owns the pool collection and applies ledger commands to it.
//
// Published state is never modified. Each command builds a new collection
// that shares untouched pools with the previous one and swaps it in with a
// single atomic store, so readers never observe a partial update.
type Engine struct {
	mu    sync.Mutex // serialises commands
	state atomic.Pointer[[]*models.Pool]
	now   func() time.Time
	newID func(prefix string) string
}

// NewEngine creates an engine with no pools.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: func(prefix string) string { return prefix + "-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	empty := []*models.Pool{}
	e.state.Store(&empty)
	return e
}

// Load replaces the whole collection with the given pools, newest first.
// Every pool is checked with CheckPool before anything is published.
func (e *Engine) Load(pools []models.Pool) error {
	next := make([]*models.Pool, 0, len(pools))
	ids := make(map[string]bool, len(pools))
	for i := range pools {
		p := pools[i].Clone()
		if ids[p.ID] {
			return fmt.Errorf("duplicate pool id %s", p.ID)
		}
		ids[p.ID] = true
		if err := CheckPool(&p); err != nil {
			return err
		}
		next = append(next, &p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Store(&next)
	return nil
}

func (e *Engine) current() []*models.Pool {
	return *e.state.Load()
}

// Pools returns a copy of every pool, newest first.
func (e *Engine) Pools() []models.Pool {
	pools := e.current()
	out := make([]models.Pool, len(pools))
	for i, p := range pools {
		out[i] = p.Clone()
	}
	return out
}

// Pool returns a copy of the pool with the given ID.
func (e *Engine) Pool(id string) (models.Pool, error) {
	pools := e.current()
	i, err := indexOf(pools, id)
	if err != nil {
		return models.Pool{}, err
	}
	return pools[i].Clone(), nil
}

// CreatePool adds a new, empty pool owned by actor at the head of the
// collection.
func (e *Engine) CreatePool(actor models.User, name, description string, goal decimal.Decimal) (models.Pool, error) {
	if err := requireUser(actor); err != nil {
		return models.Pool{}, err
	}
	name, err := requireText("name", name)
	if err != nil {
		return models.Pool{}, err
	}
	description, err = requireText("description", description)
	if err != nil {
		return models.Pool{}, err
	}
	if err := requirePositive("goal", goal); err != nil {
		return models.Pool{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pools := e.current()
	pool := &models.Pool{
		ID:                  e.freshPoolID(pools),
		Name:                name,
		Description:         description,
		Goal:                goal,
		CurrentAmount:       decimal.Zero,
		Members:             []models.User{actor},
		Transactions:        []models.Transaction{},
		WithdrawalProposals: []models.WithdrawalProposal{},
	}
	next := prepend(pools, pool)
	e.state.Store(&next)
	return pool.Clone(), nil
}

// AddMember adds actor to the pool's members. Quorums of existing proposals
// are not affected.
func (e *Engine) AddMember(actor models.User, poolID string) (models.Pool, error) {
	if err := requireUser(actor); err != nil {
		return models.Pool{}, err
	}
	return e.update(poolID, func(p *models.Pool) error {
		if p.HasMember(actor.ID) {
			return fmt.Errorf("pool %s: %w", p.ID, ErrAlreadyMember)
		}
		p.Members = append(append([]models.User{}, p.Members...), actor)
		return nil
	})
}

// AddContribution records a contribution by actor and raises the pool
// balance by exactly amount.
func (e *Engine) AddContribution(actor models.User, poolID string, amount decimal.Decimal, description string) (models.Pool, error) {
	if err := requireUser(actor); err != nil {
		return models.Pool{}, err
	}
	if err := requirePositive("amount", amount); err != nil {
		return models.Pool{}, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "Contribution"
	}

	return e.update(poolID, func(p *models.Pool) error {
		p.Transactions = prepend(p.Transactions, models.Transaction{
			ID:          e.newID("t"),
			Type:        models.TransactionContribution,
			Amount:      amount,
			Description: description,
			User:        actor,
			Date:        e.now(),
		})
		p.CurrentAmount = p.CurrentAmount.Add(amount)
		return nil
	})
}

// CreateWithdrawalProposal opens a pending proposal to withdraw amount from
// the pool. The amount may not exceed the current balance.
func (e *Engine) CreateWithdrawalProposal(actor models.User, poolID string, amount decimal.Decimal, reason, category string) (models.Pool, error) {
	if err := requireUser(actor); err != nil {
		return models.Pool{}, err
	}
	if err := requirePositive("amount", amount); err != nil {
		return models.Pool{}, err
	}
	reason, err := requireText("reason", reason)
	if err != nil {
		return models.Pool{}, err
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	return e.update(poolID, func(p *models.Pool) error {
		if amount.GreaterThan(p.CurrentAmount) {
			return fmt.Errorf("amount %s exceeds balance %s: %w", amount, p.CurrentAmount, ErrInvalidAmount)
		}
		p.WithdrawalProposals = prepend(p.WithdrawalProposals, models.WithdrawalProposal{
			ID:                e.newID("wp"),
			PoolID:            p.ID,
			Proposer:          actor,
			Amount:            amount,
			Reason:            reason,
			Category:          category,
			Status:            models.ProposalPending,
			Approvers:         []models.User{},
			RequiredApprovals: RequiredApprovals(len(p.Members)),
			Date:              e.now(),
		})
		return nil
	})
}

// ApproveWithdrawal records actor's approval of a pending proposal. When
// the quorum is reached the proposal becomes APPROVED and a single WITHDRAWAL
// transaction, attributed to the proposer, is executed.
func (e *Engine) ApproveWithdrawal(actor models.User, poolID, proposalID string) (models.Pool, error) {
	if err := requireUser(actor); err != nil {
		return models.Pool{}, err
	}

	return e.update(poolID, func(p *models.Pool) error {
		idx := p.ProposalIndex(proposalID)
		if idx < 0 {
			return fmt.Errorf("proposal %s: %w", proposalID, ErrNotFound)
		}
		wp := p.WithdrawalProposals[idx].Clone()
		switch {
		case wp.Status != models.ProposalPending:
			return fmt.Errorf("proposal %s is %s: %w", wp.ID, wp.Status, ErrAlreadyResolved)
		case wp.Proposer.ID == actor.ID:
			return fmt.Errorf("proposal %s: %w", wp.ID, ErrSelfApproval)
		case wp.HasApprover(actor.ID):
			return fmt.Errorf("proposal %s: %w", wp.ID, ErrDuplicateApproval)
		}

		wp.Approvers = append(wp.Approvers, actor)
		if len(wp.Approvers) >= wp.RequiredApprovals {
			if wp.Amount.GreaterThan(p.CurrentAmount) {
				return fmt.Errorf("proposal %s: amount %s exceeds balance %s: %w", wp.ID, wp.Amount, p.CurrentAmount, ErrInvalidAmount)
			}
			wp.Status = models.ProposalApproved
			p.Transactions = prepend(p.Transactions, models.Transaction{
				ID:          e.newID("t"),
				Type:        models.TransactionWithdrawal,
				Amount:      wp.Amount,
				Description: wp.Reason,
				User:        wp.Proposer,
				Date:        e.now(),
			})
			p.CurrentAmount = p.CurrentAmount.Sub(wp.Amount)
		}

		proposals := append([]models.WithdrawalProposal{}, p.WithdrawalProposals...)
		proposals[idx] = wp
		p.WithdrawalProposals = proposals
		return nil
	})
}

// update runs fn against a shallow copy of the pool and publishes the result
// if fn succeeds. fn must replace any slice it changes rather than writing
// into it, since the originals are shared with the published state.
func (e *Engine) update(poolID string, fn func(p *models.Pool) error) (models.Pool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pools := e.current()
	i, err := indexOf(pools, poolID)
	if err != nil {
		return models.Pool{}, err
	}
	pool := *pools[i]
	if err := fn(&pool); err != nil {
		return models.Pool{}, err
	}

	next := make([]*models.Pool, len(pools))
	copy(next, pools)
	next[i] = &pool
	e.state.Store(&next)
	return pool.Clone(), nil
}

func (e *Engine) freshPoolID(pools []*models.Pool) string {
	for {
		id := e.newID("pool")
		if _, err := indexOf(pools, id); err != nil {
			return id
		}
	}
}

func indexOf(pools []*models.Pool, id string) (int, error) {
	for i, p := range pools {
		if p.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("pool %s: %w", id, ErrNotFound)
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}
