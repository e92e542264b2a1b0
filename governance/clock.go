package governance

import (
	"time"

	"eduledger/models"
)

// Advance is the governance clock: a pure function deciding the terminal
// state an Active proposal moves to once its deadline has elapsed. It is
// applied on every read/write path that touches proposal state, so state
// is never observably stale and no background timer is required.
//
// Returns the new state and whether a transition happened.
func Advance(proposal *models.Proposal, tally *Tally, now time.Time) (string, bool) {
	if proposal.State != models.ProposalActive {
		return proposal.State, false
	}
	if proposal.ClosesAt == nil || now.Before(*proposal.ClosesAt) {
		return proposal.State, false
	}

	if !tally.MeetsQuorum(proposal.QuorumThreshold) {
		return models.ProposalExpired, true
	}
	if tally.Approved(proposal.ApprovalThreshold) {
		return models.ProposalPassed, true
	}
	return models.ProposalRejected, true
}
