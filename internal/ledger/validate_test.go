package ledger

import (
	"testing"

	"pool-ledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestRequiredApprovals(t *testing.T) {
	tests := []struct {
		members int
		want    int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{10, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RequiredApprovals(tt.members), "members=%d", tt.members)
	}
}

func TestCheckPool(t *testing.T) {
	for _, p := range DemoPools() {
		assert.NoError(t, CheckPool(&p), "demo pool %s", p.ID)
	}

	tests := []struct {
		name   string
		mutate func(p *models.Pool)
	}{
		{"balance drift", func(p *models.Pool) { p.CurrentAmount = dec("276") }},
		{"non-positive goal", func(p *models.Pool) { p.Goal = dec("0") }},
		{"duplicate member", func(p *models.Pool) { p.Members = append(p.Members, p.Members[0]) }},
		{"proposer approves", func(p *models.Pool) {
			p.WithdrawalProposals[0].Approvers = append(p.WithdrawalProposals[0].Approvers, p.WithdrawalProposals[0].Proposer)
		}},
		{"approved below quorum", func(p *models.Pool) { p.WithdrawalProposals[0].Status = models.ProposalApproved }},
		{"pending at quorum", func(p *models.Pool) { p.WithdrawalProposals[0].RequiredApprovals = 1 }},
		{"foreign proposal", func(p *models.Pool) { p.WithdrawalProposals[0].PoolID = "pool-2" }},
		{"unknown status", func(p *models.Pool) { p.WithdrawalProposals[0].Status = "ON_HOLD" }},
		{"negative balance", func(p *models.Pool) {
			p.Transactions = append(p.Transactions, models.Transaction{Type: models.TransactionWithdrawal, Amount: dec("300")})
			p.CurrentAmount = dec("-25")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DemoPools()[0]
			tt.mutate(&p)
			assert.Error(t, CheckPool(&p))
		})
	}
}

func TestPoolHelpers(t *testing.T) {
	p := DemoPools()[0]

	assert.True(t, p.HasMember("user-2"))
	assert.False(t, p.HasMember("user-4"))
	assert.Equal(t, 0, p.ProposalIndex("wp-1"))
	assert.Equal(t, -1, p.ProposalIndex("wp-9"))
	assert.True(t, dec("275").Equal(p.LedgerBalance()))
	assert.InDelta(t, 55.0, p.Progress(), 0.0001)
}
