package store

import (
	"errors"

	"eduledger/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the database-backed implementation of governance.Store
type GormStore struct {
	Db *gorm.DB
}

// NewGormStore creates a new database-backed governance store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{Db: db}
}

// SaveProposal inserts a new proposal; the primary key is the monotonic id
func (s *GormStore) SaveProposal(proposal *models.Proposal) error {
	return s.Db.Create(proposal).Error
}

// UpdateProposal persists changes to an existing proposal
func (s *GormStore) UpdateProposal(proposal *models.Proposal) error {
	return s.Db.Save(proposal).Error
}

// GetProposal retrieves a proposal by id
func (s *GormStore) GetProposal(id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	err := s.Db.Where("id = ?", id).First(&proposal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ListProposals lists all proposals
func (s *GormStore) ListProposals() ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := s.Db.Find(&proposals).Error
	return proposals, err
}

// ListProposalsByState lists proposals in the given state
func (s *GormStore) ListProposalsByState(state string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := s.Db.Where("state = ?", state).Find(&proposals).Error
	return proposals, err
}

// ListProposalsByAuthor lists the author's proposals, newest first
func (s *GormStore) ListProposalsByAuthor(authorID uint) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := s.Db.Where("author_id = ?", authorID).Order("id desc").Find(&proposals).Error
	return proposals, err
}

// SaveBallot inserts or overwrites the (proposal, voter) ballot
func (s *GormStore) SaveBallot(ballot *models.Ballot) error {
	return s.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "proposal_id"}, {Name: "voter_id"}},
		UpdateAll: true,
	}).Create(ballot).Error
}

// GetBallot retrieves the voter's ballot on the proposal
func (s *GormStore) GetBallot(proposalID, voterID uint) (*models.Ballot, error) {
	var ballot models.Ballot
	err := s.Db.Where("proposal_id = ? AND voter_id = ?", proposalID, voterID).First(&ballot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ballot, nil
}

// ListBallots lists all ballots cast on the proposal
func (s *GormStore) ListBallots(proposalID uint) ([]models.Ballot, error) {
	var ballots []models.Ballot
	err := s.Db.Where("proposal_id = ?", proposalID).Find(&ballots).Error
	return ballots, err
}

// CountBallots returns the number of stored ballots
func (s *GormStore) CountBallots() (int64, error) {
	var count int64
	err := s.Db.Model(&models.Ballot{}).Count(&count).Error
	return count, err
}

// AppendEvent appends an audit-trail entry
func (s *GormStore) AppendEvent(event *models.GovernanceEvent) error {
	return s.Db.Create(event).Error
}

// ListEvents returns the proposal's audit-trail entries in order
func (s *GormStore) ListEvents(proposalID uint) ([]models.GovernanceEvent, error) {
	var events []models.GovernanceEvent
	err := s.Db.Where("proposal_id = ?", proposalID).Order("id asc").Find(&events).Error
	return events, err
}
