package governance

import "errors"

var (
	// ErrNotFound indicates the proposal was not found
	ErrNotFound = errors.New("proposal not found")

	// ErrUnauthorized indicates the caller lacks the required role or ownership
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrInvalidProposal indicates malformed proposal or ballot input
	ErrInvalidProposal = errors.New("invalid proposal")

	// ErrInvalidTransition indicates an illegal state change was attempted
	ErrInvalidTransition = errors.New("invalid proposal state transition")

	// ErrNotEligible indicates the caller is not an eligible voter or proposer
	ErrNotEligible = errors.New("caller is not eligible")

	// ErrProposalNotActive indicates the proposal is not open for voting
	ErrProposalNotActive = errors.New("proposal is not active")

	// ErrProposalNotPassed indicates the proposal has not passed
	ErrProposalNotPassed = errors.New("proposal has not passed")
)
