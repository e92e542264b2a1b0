package governance

import (
	"sort"
	"strings"
	"sync"
	"time"

	"eduledger/gateways"
	"eduledger/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var validProposalTypes = map[string]bool{
	models.ProposalTypeText:                   true,
	models.ProposalTypeCourseApproval:         true,
	models.ProposalTypeInstructorVerification: true,
	models.ProposalTypeChangeParam:            true,
}

var validChoices = map[string]bool{
	models.VoteFor:     true,
	models.VoteAgainst: true,
	models.VoteAbstain: true,
}

// Service owns the proposal lifecycle and the vote tally. Writes take
// the write lock; identity gateway calls happen before it so anything
// read earlier is re-validated once the lock is held.
type Service struct {
	store    Store
	identity gateways.Identity
	executor Executor
	config   *Config
	mutex    sync.RWMutex
}

// NewService creates a new governance service
func NewService(store Store, identity gateways.Identity, executor Executor, config *Config) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if executor == nil {
		executor = NopExecutor{}
	}
	return &Service{
		store:    store,
		identity: identity,
		executor: executor,
		config:   config,
	}
}

// Config returns the service's governance parameters
func (s *Service) Config() *Config {
	return s.config
}

// Create registers a new proposal in Draft state. Thresholds must be
// whole percentages in (0,100]; title and body must be non-empty. The
// author needs enough voting weight to propose (spam guard).
func (s *Service) Create(authorID uint, input CreateInput) (*models.Proposal, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, ErrInvalidProposal
	}
	if input.QuorumThreshold == 0 || input.QuorumThreshold > 100 {
		return nil, ErrInvalidProposal
	}
	if input.ApprovalThreshold == 0 || input.ApprovalThreshold > 100 {
		return nil, ErrInvalidProposal
	}
	if input.Type == "" {
		input.Type = models.ProposalTypeText
	}
	if !validProposalTypes[input.Type] {
		return nil, ErrInvalidProposal
	}

	if !s.identity.IsRegistered(authorID) {
		return nil, ErrNotEligible
	}
	if s.identity.VotingWeight(authorID) < s.config.MinProposalWeight {
		return nil, ErrNotEligible
	}

	data := make(datatypes.JSONMap, len(input.Data))
	for k, v := range input.Data {
		data[k] = v
	}

	proposal := &models.Proposal{
		AuthorID:          authorID,
		Title:             input.Title,
		Body:              input.Body,
		Type:              input.Type,
		Data:              data,
		State:             models.ProposalDraft,
		QuorumThreshold:   input.QuorumThreshold,
		ApprovalThreshold: input.ApprovalThreshold,
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.store.SaveProposal(proposal); err != nil {
		return nil, err
	}
	s.appendEvent(proposal.ID, models.ActionCreated, authorID, "")
	return proposal, nil
}

// Activate opens a Draft proposal for voting. Only the author or an
// admin may activate; the voting window starts now.
func (s *Service) Activate(id, callerID uint, now time.Time) (*models.Proposal, error) {
	isAdmin := s.identity.HasRole(callerID, models.RoleAdmin)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.store.GetProposal(id)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	if callerID != proposal.AuthorID && !isAdmin {
		return nil, ErrUnauthorized
	}
	if proposal.State != models.ProposalDraft {
		return nil, ErrInvalidTransition
	}

	closesAt := now.Add(s.config.VotingWindow)
	proposal.State = models.ProposalActive
	proposal.OpensAt = &now
	proposal.ClosesAt = &closesAt
	if err := s.store.UpdateProposal(proposal); err != nil {
		return nil, err
	}
	s.appendEvent(proposal.ID, models.ActionActivated, callerID, "")
	return proposal, nil
}

// CastVote records the voter's ballot with their weight frozen at this
// instant. Re-casting while the proposal is still open overwrites the
// prior ballot (last cast wins); after the deadline it fails, even when
// the terminal transition has not been observed yet.
func (s *Service) CastVote(proposalID, voterID uint, choice string, now time.Time) (*models.Ballot, error) {
	if !validChoices[choice] {
		return nil, ErrInvalidProposal
	}

	// Gateway answers first; proposal state is checked only after, under
	// the lock, since the identity lookup can suspend.
	if !s.identity.IsRegistered(voterID) {
		return nil, ErrNotEligible
	}
	weight := s.identity.VotingWeight(voterID)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.store.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	if _, err := s.advanceLocked(proposal, now); err != nil {
		return nil, err
	}
	if proposal.State != models.ProposalActive || !now.Before(*proposal.ClosesAt) {
		return nil, ErrProposalNotActive
	}

	ballot, err := s.store.GetBallot(proposalID, voterID)
	if err != nil {
		return nil, err
	}
	if ballot == nil {
		ballot = &models.Ballot{ProposalID: proposalID, VoterID: voterID}
	}
	ballot.Choice = choice
	ballot.Weight = weight
	ballot.CastAt = now

	if err := s.store.SaveBallot(ballot); err != nil {
		return nil, err
	}
	s.appendEvent(proposalID, models.ActionVoteCast, voterID, choice)
	return ballot, nil
}

// Tally recomputes the vote arithmetic from the stored ballot set. Safe
// to call before, during or after closing.
func (s *Service) Tally(proposalID uint) (*Tally, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposal, err := s.store.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	return s.tallyLocked(proposalID)
}

// Execute applies a Passed proposal's effect and marks it Executed.
// Admin only. Executing an already-Executed proposal is a no-op that
// returns the record unchanged.
func (s *Service) Execute(id, callerID uint, now time.Time) (*models.Proposal, error) {
	isAdmin := s.identity.HasRole(callerID, models.RoleAdmin)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.store.GetProposal(id)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	if !isAdmin {
		return nil, ErrUnauthorized
	}
	if _, err := s.advanceLocked(proposal, now); err != nil {
		return nil, err
	}
	if proposal.State == models.ProposalExecuted {
		return proposal, nil
	}
	if proposal.State != models.ProposalPassed {
		return nil, ErrProposalNotPassed
	}

	// Effect first; the transition is recorded only after it succeeds,
	// so a failed execution leaves the proposal Passed.
	if err := s.executor.Execute(proposal); err != nil {
		return nil, err
	}

	proposal.State = models.ProposalExecuted
	proposal.ExecutedAt = &now
	if err := s.store.UpdateProposal(proposal); err != nil {
		return nil, err
	}
	s.appendEvent(proposal.ID, models.ActionExecuted, callerID, "")
	return proposal, nil
}

// Get returns one proposal, with the clock applied first
func (s *Service) Get(id uint, now time.Time) (*models.Proposal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	proposal, err := s.store.GetProposal(id)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	if _, err := s.advanceLocked(proposal, now); err != nil {
		return nil, err
	}
	return proposal, nil
}

// GetActive returns open proposals ordered soonest-closing first,
// capped at limit when limit > 0
func (s *Service) GetActive(limit int, now time.Time) ([]models.Proposal, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	candidates, err := s.store.ListProposalsByState(models.ProposalActive)
	if err != nil {
		return nil, err
	}

	active := make([]models.Proposal, 0, len(candidates))
	for i := range candidates {
		proposal := &candidates[i]
		if _, err := s.advanceLocked(proposal, now); err != nil {
			return nil, err
		}
		if proposal.State == models.ProposalActive {
			active = append(active, *proposal)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].ClosesAt.Before(*active[j].ClosesAt)
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

// History returns proposals filtered by state ("" for all), newest
// first, capped at limit when limit > 0
func (s *Service) History(state string, limit int) ([]models.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var (
		proposals []models.Proposal
		err       error
	)
	if state == "" {
		proposals, err = s.store.ListProposals()
	} else {
		proposals, err = s.store.ListProposalsByState(state)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
	if limit > 0 && len(proposals) > limit {
		proposals = proposals[:limit]
	}
	return proposals, nil
}

// ProposalsBy returns all proposals by one author
func (s *Service) ProposalsBy(authorID uint) ([]models.Proposal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.store.ListProposalsByAuthor(authorID)
}

// VotesFor returns the ballots cast on a proposal
func (s *Service) VotesFor(proposalID uint) ([]models.Ballot, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposal, err := s.store.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	return s.store.ListBallots(proposalID)
}

// Events returns a proposal's audit trail
func (s *Service) Events(proposalID uint) ([]models.GovernanceEvent, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.store.ListEvents(proposalID)
}

// Stats summarizes the governance ledger
func (s *Service) Stats() (*Stats, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	proposals, err := s.store.ListProposals()
	if err != nil {
		return nil, err
	}
	ballots, err := s.store.CountBallots()
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProposals: int64(len(proposals)), TotalBallots: ballots}
	for _, proposal := range proposals {
		switch proposal.State {
		case models.ProposalActive:
			stats.ActiveProposals++
		case models.ProposalExecuted:
			stats.ExecutedProposals++
		}
	}
	return stats, nil
}

// FinalizeDue applies the clock to every Active proposal and returns how
// many reached a terminal state. The cron sweep calls this so deadlines
// are met even when nobody is reading.
func (s *Service) FinalizeDue(now time.Time) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	candidates, err := s.store.ListProposalsByState(models.ProposalActive)
	if err != nil {
		return 0, err
	}

	finalized := 0
	for i := range candidates {
		transitioned, err := s.advanceLocked(&candidates[i], now)
		if err != nil {
			return finalized, err
		}
		if transitioned {
			finalized++
		}
	}
	return finalized, nil
}

// advanceLocked applies the governance clock to one proposal and
// persists the transition. Caller holds the write lock.
func (s *Service) advanceLocked(proposal *models.Proposal, now time.Time) (bool, error) {
	if proposal.State != models.ProposalActive {
		return false, nil
	}

	tally, err := s.tallyLocked(proposal.ID)
	if err != nil {
		return false, err
	}

	newState, changed := Advance(proposal, tally, now)
	if !changed {
		return false, nil
	}

	proposal.State = newState
	if err := s.store.UpdateProposal(proposal); err != nil {
		return false, err
	}

	action := models.ActionExpired
	switch newState {
	case models.ProposalPassed:
		action = models.ActionPassed
	case models.ProposalRejected:
		action = models.ActionRejected
	}
	s.appendEvent(proposal.ID, action, 0, "deadline reached")
	return true, nil
}

// tallyLocked recomputes the tally for one proposal. Caller holds at
// least the read lock.
func (s *Service) tallyLocked(proposalID uint) (*Tally, error) {
	ballots, err := s.store.ListBallots(proposalID)
	if err != nil {
		return nil, err
	}

	tally := &Tally{TotalEligibleWeight: s.identity.TotalVotingWeight()}
	for _, ballot := range ballots {
		switch ballot.Choice {
		case models.VoteFor:
			tally.ForWeight += ballot.Weight
		case models.VoteAgainst:
			tally.AgainstWeight += ballot.Weight
		case models.VoteAbstain:
			tally.AbstainWeight += ballot.Weight
		}
	}
	return tally, nil
}

// appendEvent records an audit-trail entry; the trail is best-effort and
// never fails the operation that produced it
func (s *Service) appendEvent(proposalID uint, action string, actorID uint, notes string) {
	_ = s.store.AppendEvent(&models.GovernanceEvent{
		EventID:    uuid.NewString(),
		ProposalID: proposalID,
		Action:     action,
		ActorID:    actorID,
		Notes:      notes,
	})
}
