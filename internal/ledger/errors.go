package ledger

import "errors"

// Errors returned by Engine commands. A command that returns one of these
// has left the ledger unchanged.
var (
	// ErrNotFound: the referenced pool or proposal does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount: the amount is not positive, or exceeds the pool balance.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidInput: a required text field is empty.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateApproval: the user has already approved the proposal.
	ErrDuplicateApproval = errors.New("proposal already approved by this user")

	// ErrAlreadyResolved: the proposal is no longer pending.
	ErrAlreadyResolved = errors.New("proposal already resolved")

	// ErrSelfApproval: the proposer tried to approve their own proposal.
	ErrSelfApproval = errors.New("proposer cannot approve own proposal")

	// ErrAlreadyMember: the user already belongs to the pool.
	ErrAlreadyMember = errors.New("user is already a member")
)
