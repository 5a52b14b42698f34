package ledger

import (
	"time"

	"pool-ledger/internal/models"

	"github.com/shopspring/decimal"
)

func avatar(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/40/40"
}

// DemoUsers returns the users referenced by DemoPools.
func DemoUsers() []models.User {
	return []models.User{
		{ID: "user-1", Name: "You", AvatarURL: avatar("you")},
		{ID: "user-2", Name: "Alice Johnson", AvatarURL: avatar("alice")},
		{ID: "user-3", Name: "Bob Williams", AvatarURL: avatar("bob")},
		{ID: "user-4", Name: "Charlie Brown", AvatarURL: avatar("charlie")},
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// DemoPools returns a small, consistent data set for local development.
func DemoPools() []models.Pool {
	u := DemoUsers()
	amt := decimal.NewFromInt

	return []models.Pool{
		{
			ID:            "pool-1",
			Name:          "Community Garden Supplies",
			Description:   "Funds for purchasing new tools, soil, and seeds for the Spring planting season.",
			Goal:          amt(500),
			CurrentAmount: amt(275),
			Members:       []models.User{u[0], u[1], u[2]},
			Transactions: []models.Transaction{
				{ID: "t-3", Type: models.TransactionContribution, Amount: amt(100), Description: "Personal Contribution", User: u[0], Date: day("2023-10-10")},
				{ID: "t-2", Type: models.TransactionContribution, Amount: amt(75), Description: "Donation from bake sale", User: u[2], Date: day("2023-10-05")},
				{ID: "t-1", Type: models.TransactionContribution, Amount: amt(100), Description: "Initial seed funding", User: u[1], Date: day("2023-10-01")},
			},
			WithdrawalProposals: []models.WithdrawalProposal{
				{
					ID:                "wp-1",
					PoolID:            "pool-1",
					Proposer:          u[1],
					Amount:            amt(50),
					Reason:            "Purchase of new shovels and gloves from Home Depot",
					Category:          "Supplies",
					Status:            models.ProposalPending,
					Approvers:         []models.User{u[0]},
					RequiredApprovals: 2,
					Date:              day("2023-10-12"),
				},
			},
		},
		{
			ID:            "pool-2",
			Name:          "Student Tech Club Hackathon",
			Description:   "Budget for our annual hackathon event, covering food, prizes, and cloud server costs.",
			Goal:          amt(2000),
			CurrentAmount: amt(1250),
			Members:       []models.User{u[0], u[3]},
			Transactions: []models.Transaction{
				{ID: "t-5", Type: models.TransactionContribution, Amount: amt(250), Description: "Member fees", User: u[0], Date: day("2023-09-20")},
				{ID: "t-4", Type: models.TransactionContribution, Amount: amt(1000), Description: "University grant", User: u[3], Date: day("2023-09-15")},
			},
			WithdrawalProposals: []models.WithdrawalProposal{},
		},
	}
}
