package ledger

import (
	"fmt"
	"strings"

	"pool-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// MaxRequiredApprovals is the quorum for pools with enough members.
const MaxRequiredApprovals = 2

// DefaultCategory is used when a proposal is submitted without a category.
const DefaultCategory = "Miscellaneous"

// RequiredApprovals returns the approval quorum for a pool with the given
// number of members. Small pools fall back to their member count so the
// quorum is always reachable.
func RequiredApprovals(memberCount int) int {
	return min(MaxRequiredApprovals, memberCount)
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required: %w", field, ErrInvalidInput)
	}
	return value, nil
}

func requirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s must be > 0: %w", field, ErrInvalidAmount)
	}
	return nil
}

func requireUser(u models.User) error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("acting user is required: %w", ErrInvalidInput)
	}
	return nil
}

// CheckPool verifies the structural invariants of a pool: the balance
// matches the transaction history and is not negative, members are unique,
// and every proposal's approver set is consistent with its status.
func CheckPool(p *models.Pool) error {
	if !p.Goal.IsPositive() {
		return fmt.Errorf("pool %s: goal must be > 0", p.ID)
	}
	if p.CurrentAmount.IsNegative() {
		return fmt.Errorf("pool %s: negative balance %s", p.ID, p.CurrentAmount)
	}
	if sum := p.LedgerBalance(); !sum.Equal(p.CurrentAmount) {
		return fmt.Errorf("pool %s: balance %s does not match ledger %s", p.ID, p.CurrentAmount, sum)
	}

	seen := make(map[string]bool, len(p.Members))
	for _, m := range p.Members {
		if seen[m.ID] {
			return fmt.Errorf("pool %s: duplicate member %s", p.ID, m.ID)
		}
		seen[m.ID] = true
	}

	for _, wp := range p.WithdrawalProposals {
		if wp.PoolID != p.ID {
			return fmt.Errorf("proposal %s: belongs to pool %s, found in %s", wp.ID, wp.PoolID, p.ID)
		}
		if wp.HasApprover(wp.Proposer.ID) {
			return fmt.Errorf("proposal %s: proposer is among approvers", wp.ID)
		}
		approvers := make(map[string]bool, len(wp.Approvers))
		for _, u := range wp.Approvers {
			if approvers[u.ID] {
				return fmt.Errorf("proposal %s: duplicate approver %s", wp.ID, u.ID)
			}
			approvers[u.ID] = true
		}
		reached := len(wp.Approvers) >= wp.RequiredApprovals
		switch wp.Status {
		case models.ProposalPending:
			if reached {
				return fmt.Errorf("proposal %s: pending with %d/%d approvals", wp.ID, len(wp.Approvers), wp.RequiredApprovals)
			}
		case models.ProposalApproved:
			if !reached {
				return fmt.Errorf("proposal %s: approved with %d/%d approvals", wp.ID, len(wp.Approvers), wp.RequiredApprovals)
			}
		case models.ProposalRejected:
		default:
			return fmt.Errorf("proposal %s: unknown status %q", wp.ID, wp.Status)
		}
	}
	return nil
}
