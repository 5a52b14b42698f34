package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a participant in one or more pools.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// TransactionType distinguishes money entering a pool from money leaving it.
type TransactionType string

const (
	TransactionContribution TransactionType = "CONTRIBUTION"
	TransactionWithdrawal   TransactionType = "WITHDRAWAL"
)

// ProposalStatus is the state of a withdrawal proposal.
type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "PENDING"
	ProposalApproved ProposalStatus = "APPROVED"
	// ProposalRejected is terminal. No command currently produces it.
	ProposalRejected ProposalStatus = "REJECTED"
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	User        User            `json:"user"`
	Date        time.Time       `json:"date"`
}

// WithdrawalProposal is a request to move money out of a pool once enough
// members have approved it.
type WithdrawalProposal struct {
	ID                string          `json:"id"`
	PoolID            string          `json:"pool_id"`
	Proposer          User            `json:"proposer"`
	Amount            decimal.Decimal `json:"amount"`
	Reason            string          `json:"reason"`
	Category          string          `json:"category,omitempty"`
	Status            ProposalStatus  `json:"status"`
	Approvers         []User          `json:"approvers"`
	RequiredApprovals int             `json:"required_approvals"`
	Date              time.Time       `json:"date"`
}

// HasApprover reports whether the user with the given ID approved p.
func (p *WithdrawalProposal) HasApprover(userID string) bool {
	for _, u := range p.Approvers {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Clone returns a copy of p that shares no slices with it.
func (p WithdrawalProposal) Clone() WithdrawalProposal {
	p.Approvers = append([]User{}, p.Approvers...)
	return p
}

// Pool is a shared fund. Transactions and proposals are kept newest first.
type Pool struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Description         string               `json:"description"`
	Goal                decimal.Decimal      `json:"goal"`
	CurrentAmount       decimal.Decimal      `json:"current_amount"`
	Members             []User               `json:"members"`
	Transactions        []Transaction        `json:"transactions"`
	WithdrawalProposals []WithdrawalProposal `json:"withdrawal_proposals"`
}

// HasMember reports whether the user with the given ID belongs to p.
func (p *Pool) HasMember(userID string) bool {
	for _, u := range p.Members {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// ProposalIndex returns the index of the proposal with the given ID, or -1.
func (p *Pool) ProposalIndex(proposalID string) int {
	for i := range p.WithdrawalProposals {
		if p.WithdrawalProposals[i].ID == proposalID {
			return i
		}
	}
	return -1
}

// LedgerBalance recomputes the balance from the transaction history.
func (p *Pool) LedgerBalance() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.Transactions {
		switch t.Type {
		case TransactionContribution:
			total = total.Add(t.Amount)
		case TransactionWithdrawal:
			total = total.Sub(t.Amount)
		}
	}
	return total
}

// Progress returns how far the pool is toward its goal, in percent.
func (p *Pool) Progress() float64 {
	if !p.Goal.IsPositive() {
		return 0
	}
	pct, _ := p.CurrentAmount.Div(p.Goal).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// Clone returns a deep copy of p.
func (p Pool) Clone() Pool {
	p.Members = append([]User{}, p.Members...)
	p.Transactions = append([]Transaction{}, p.Transactions...)
	proposals := make([]WithdrawalProposal, len(p.WithdrawalProposals))
	for i, wp := range p.WithdrawalProposals {
		proposals[i] = wp.Clone()
	}
	p.WithdrawalProposals = proposals
	return p
}
