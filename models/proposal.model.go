package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Proposal states
const (
	ProposalDraft    = "DRAFT"
	ProposalActive   = "ACTIVE"
	ProposalPassed   = "PASSED"
	ProposalRejected = "REJECTED"
	ProposalExecuted = "EXECUTED"
	ProposalExpired  = "EXPIRED"
)

// Proposal types
const (
	ProposalTypeText                   = "TEXT"
	ProposalTypeCourseApproval         = "COURSE_APPROVAL"
	ProposalTypeInstructorVerification = "INSTRUCTOR_VERIFICATION"
	ProposalTypeChangeParam            = "CHANGE_PARAM"
)

// Proposal is a governance item. The primary key doubles as the
// monotonic proposal id. Title, Body, thresholds and the voting window
// are immutable once set; only State, ClosesAt/OpensAt (at activation)
// and ExecutedAt ever change.
type Proposal struct {
	gorm.Model
	AuthorID          uint              `json:"author_id" gorm:"index;not null"`
	Title             string            `json:"title" gorm:"not null"`
	Body              string            `json:"body" gorm:"not null"`
	Type              string            `json:"type" gorm:"default:'TEXT'"`
	Data              datatypes.JSONMap `json:"data"` // type-specific payload (course_id, user_id, param/value)
	State             string            `json:"state" gorm:"index;default:'DRAFT'"`
	OpensAt           *time.Time        `json:"opens_at"`
	ClosesAt          *time.Time        `json:"closes_at" gorm:"index"`
	QuorumThreshold   uint              `json:"quorum_threshold" gorm:"not null"`   // percent of eligible weight
	ApprovalThreshold uint              `json:"approval_threshold" gorm:"not null"` // percent of for+against weight
	ExecutedAt        *time.Time        `json:"executed_at"`
}

// Ballot choices
const (
	VoteFor     = "FOR"
	VoteAgainst = "AGAINST"
	VoteAbstain = "ABSTAIN"
)

// Ballot is one voter's vote on one proposal. (ProposalID, VoterID) is
// unique; recasting while the proposal is active overwrites in place.
// Weight is frozen at cast time.
type Ballot struct {
	gorm.Model
	ProposalID uint      `json:"proposal_id" gorm:"uniqueIndex:idx_ballot_voter;not null"`
	VoterID    uint      `json:"voter_id" gorm:"uniqueIndex:idx_ballot_voter;not null"`
	Choice     string    `json:"choice" gorm:"not null"` // FOR, AGAINST, ABSTAIN
	Weight     uint64    `json:"weight" gorm:"not null"`
	CastAt     time.Time `json:"cast_at"`
}

// GovernanceEvent records lifecycle transitions for the audit trail
type GovernanceEvent struct {
	gorm.Model
	EventID    string `json:"event_id" gorm:"unique;not null"`
	ProposalID uint   `json:"proposal_id" gorm:"index"`
	Action     string `json:"action" gorm:"not null"`
	ActorID    uint   `json:"actor_id"` // 0 for system-triggered transitions
	Notes      string `json:"notes"`
}

// Governance event actions
const (
	ActionCreated   = "CREATED"
	ActionActivated = "ACTIVATED"
	ActionVoteCast  = "VOTE_CAST"
	ActionPassed    = "PASSED"
	ActionRejected  = "REJECTED"
	ActionExpired   = "EXPIRED"
	ActionExecuted  = "EXECUTED"
)
