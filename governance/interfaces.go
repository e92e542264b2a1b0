package governance

import "eduledger/models"

// Store defines storage for proposals, ballots and the audit trail
type Store interface {
	// SaveProposal inserts a new proposal, assigning the next monotonic id
	SaveProposal(proposal *models.Proposal) error

	// UpdateProposal persists changes to an existing proposal
	UpdateProposal(proposal *models.Proposal) error

	// GetProposal returns the proposal with the given id, or nil
	GetProposal(id uint) (*models.Proposal, error)

	// ListProposals returns all proposals
	ListProposals() ([]models.Proposal, error)

	// ListProposalsByState returns proposals in the given state
	ListProposalsByState(state string) ([]models.Proposal, error)

	// ListProposalsByAuthor returns the author's proposals, newest first
	ListProposalsByAuthor(authorID uint) ([]models.Proposal, error)

	// SaveBallot inserts or overwrites the (proposal, voter) ballot
	SaveBallot(ballot *models.Ballot) error

	// GetBallot returns the voter's ballot on the proposal, or nil
	GetBallot(proposalID, voterID uint) (*models.Ballot, error)

	// ListBallots returns all ballots cast on the proposal
	ListBallots(proposalID uint) ([]models.Ballot, error)

	// CountBallots returns the number of stored ballots
	CountBallots() (int64, error)

	// AppendEvent appends an audit-trail entry
	AppendEvent(event *models.GovernanceEvent) error

	// ListEvents returns the proposal's audit-trail entries in order
	ListEvents(proposalID uint) ([]models.GovernanceEvent, error)
}

// Executor applies the platform effect of a passed proposal
type Executor interface {
	// Execute performs the proposal's effect. An error aborts the
	// Passed -> Executed transition.
	Execute(proposal *models.Proposal) error
}

// NopExecutor marks proposals executed without side effects (TEXT-only
// deployments and tests)
type NopExecutor struct{}

func (NopExecutor) Execute(*models.Proposal) error { return nil }
