package store

import (
	"sort"
	"sync"
	"time"

	"eduledger/models"
)

// MemoryStore is an in-memory implementation of governance.Store
type MemoryStore struct {
	proposals map[uint]*models.Proposal
	ballots   map[uint]map[uint]*models.Ballot // proposal id -> voter id -> ballot
	events    []models.GovernanceEvent
	nextID    uint
	mutex     sync.RWMutex
}

// NewMemoryStore creates a new memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		proposals: make(map[uint]*models.Proposal),
		ballots:   make(map[uint]map[uint]*models.Ballot),
		nextID:    1,
	}
}

func copyProposal(proposal *models.Proposal) *models.Proposal {
	p := *proposal
	if proposal.Data != nil {
		p.Data = make(map[string]interface{}, len(proposal.Data))
		for k, v := range proposal.Data {
			p.Data[k] = v
		}
	}
	return &p
}

// SaveProposal inserts a new proposal, assigning the next monotonic id
func (s *MemoryStore) SaveProposal(proposal *models.Proposal) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if proposal.ID == 0 {
		proposal.ID = s.nextID
		s.nextID++
		proposal.CreatedAt = time.Now()
	}
	s.proposals[proposal.ID] = copyProposal(proposal)
	return nil
}

// UpdateProposal persists changes to an existing proposal
func (s *MemoryStore) UpdateProposal(proposal *models.Proposal) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.proposals[proposal.ID] = copyProposal(proposal)
	return nil
}

// GetProposal retrieves a proposal by id
func (s *MemoryStore) GetProposal(id uint) (*models.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if proposal, exists := s.proposals[id]; exists {
		return copyProposal(proposal), nil
	}
	return nil, nil
}

// ListProposals lists all proposals
func (s *MemoryStore) ListProposals() ([]models.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposals := make([]models.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		proposals = append(proposals, *copyProposal(proposal))
	}
	return proposals, nil
}

// ListProposalsByState lists proposals in the given state
func (s *MemoryStore) ListProposalsByState(state string) ([]models.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposals := make([]models.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.State == state {
			proposals = append(proposals, *copyProposal(proposal))
		}
	}
	return proposals, nil
}

// ListProposalsByAuthor lists the author's proposals, newest first
func (s *MemoryStore) ListProposalsByAuthor(authorID uint) ([]models.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposals := make([]models.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.AuthorID == authorID {
			proposals = append(proposals, *copyProposal(proposal))
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].ID > proposals[j].ID
	})
	return proposals, nil
}

// SaveBallot inserts or overwrites the (proposal, voter) ballot
func (s *MemoryStore) SaveBallot(ballot *models.Ballot) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	voters, exists := s.ballots[ballot.ProposalID]
	if !exists {
		voters = make(map[uint]*models.Ballot)
		s.ballots[ballot.ProposalID] = voters
	}
	b := *ballot
	voters[ballot.VoterID] = &b
	return nil
}

// GetBallot retrieves the voter's ballot on the proposal
func (s *MemoryStore) GetBallot(proposalID, voterID uint) (*models.Ballot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if ballot, exists := s.ballots[proposalID][voterID]; exists {
		b := *ballot
		return &b, nil
	}
	return nil, nil
}

// ListBallots lists all ballots cast on the proposal
func (s *MemoryStore) ListBallots(proposalID uint) ([]models.Ballot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ballots := make([]models.Ballot, 0, len(s.ballots[proposalID]))
	for _, ballot := range s.ballots[proposalID] {
		ballots = append(ballots, *ballot)
	}
	sort.Slice(ballots, func(i, j int) bool {
		return ballots[i].VoterID < ballots[j].VoterID
	})
	return ballots, nil
}

// CountBallots returns the number of stored ballots
func (s *MemoryStore) CountBallots() (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var count int64
	for _, voters := range s.ballots {
		count += int64(len(voters))
	}
	return count, nil
}

// AppendEvent appends an audit-trail entry
func (s *MemoryStore) AppendEvent(event *models.GovernanceEvent) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.events = append(s.events, *event)
	return nil
}

// ListEvents returns the proposal's audit-trail entries in order
func (s *MemoryStore) ListEvents(proposalID uint) ([]models.GovernanceEvent, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := make([]models.GovernanceEvent, 0)
	for _, event := range s.events {
		if event.ProposalID == proposalID {
			events = append(events, event)
		}
	}
	return events, nil
}
