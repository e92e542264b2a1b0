package executor

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"eduledger/governance"
	"eduledger/models"

	"gorm.io/gorm"
)

// Executor applies the platform effect of passed proposals. Course and
// user effects go straight to the platform tables; parameter changes
// update the live governance config.
type Executor struct {
	db     *gorm.DB
	config *governance.Config
}

// NewExecutor creates a new executor
func NewExecutor(db *gorm.DB, config *governance.Config) *Executor {
	return &Executor{db: db, config: config}
}

// Execute executes a proposal
func (e *Executor) Execute(proposal *models.Proposal) error {
	if proposal == nil {
		return errors.New("proposal is nil")
	}

	switch proposal.Type {
	case models.ProposalTypeText:
		return nil
	case models.ProposalTypeCourseApproval:
		return e.executeCourseApproval(proposal)
	case models.ProposalTypeInstructorVerification:
		return e.executeInstructorVerification(proposal)
	case models.ProposalTypeChangeParam:
		return e.executeChangeParam(proposal)
	default:
		return fmt.Errorf("unknown proposal type: %s", proposal.Type)
	}
}

// executeCourseApproval publishes the referenced course
func (e *Executor) executeCourseApproval(proposal *models.Proposal) error {
	courseID, err := dataUint(proposal, "course_id")
	if err != nil {
		return err
	}

	result := e.db.Model(&models.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Update("is_published", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("course %d not found", courseID)
	}
	return nil
}

// executeInstructorVerification promotes the referenced user to instructor
func (e *Executor) executeInstructorVerification(proposal *models.Proposal) error {
	userID, err := dataUint(proposal, "user_id")
	if err != nil {
		return err
	}

	result := e.db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Update("role", models.RoleInstructor)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

// executeChangeParam updates a governance parameter in the live config
func (e *Executor) executeChangeParam(proposal *models.Proposal) error {
	parameter, err := dataString(proposal, "parameter")
	if err != nil {
		return err
	}
	value, err := dataString(proposal, "value")
	if err != nil {
		return err
	}

	switch parameter {
	case "voting_window_hours":
		hours, err := strconv.Atoi(value)
		if err != nil || hours < 1 {
			return fmt.Errorf("invalid voting window: %s", value)
		}
		e.config.VotingWindow = time.Duration(hours) * time.Hour
	case "min_proposal_weight":
		weight, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid minimum proposal weight: %s", value)
		}
		e.config.MinProposalWeight = weight
	case "default_quorum":
		quorum, err := strconv.Atoi(value)
		if err != nil || quorum < 1 || quorum > 100 {
			return fmt.Errorf("invalid quorum percent: %s", value)
		}
		e.config.DefaultQuorum = uint(quorum)
	case "default_approval":
		approval, err := strconv.Atoi(value)
		if err != nil || approval < 1 || approval > 100 {
			return fmt.Errorf("invalid approval percent: %s", value)
		}
		e.config.DefaultApproval = uint(approval)
	default:
		return fmt.Errorf("unknown governance parameter: %s", parameter)
	}
	return nil
}

func dataString(proposal *models.Proposal, key string) (string, error) {
	raw, ok := proposal.Data[key]
	if !ok {
		return "", fmt.Errorf("proposal data missing %q", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("proposal data %q is not a string", key)
	}
	return value, nil
}

func dataUint(proposal *models.Proposal, key string) (uint, error) {
	value, err := dataString(proposal, key)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("proposal data %q is not a valid id: %s", key, value)
	}
	return uint(id), nil
}
