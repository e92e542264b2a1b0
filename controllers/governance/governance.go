package controllers

import (
	"errors"
	"time"

	"eduledger/governance"
	"eduledger/middleware"

	"github.com/gofiber/fiber/v2"
)

// Governance is the proposal registry service, wired in main
var Governance *governance.Service

// Init wires the governance service
func Init(service *governance.Service) {
	Governance = service
}

// CreateProposal registers a new Draft proposal by the current user
func CreateProposal(c *fiber.Ctx) error {
	authorID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProposal").(*struct {
		Title             string            `json:"title"`
		Body              string            `json:"body"`
		Type              string            `json:"type"`
		Data              map[string]string `json:"data"`
		QuorumThreshold   uint              `json:"quorum_threshold"`
		ApprovalThreshold uint              `json:"approval_threshold"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	input := governance.CreateInput{
		Title:             reqData.Title,
		Body:              reqData.Body,
		Type:              reqData.Type,
		Data:              reqData.Data,
		QuorumThreshold:   reqData.QuorumThreshold,
		ApprovalThreshold: reqData.ApprovalThreshold,
	}

	// Platform defaults apply when thresholds are omitted
	if input.QuorumThreshold == 0 {
		input.QuorumThreshold = Governance.Config().DefaultQuorum
	}
	if input.ApprovalThreshold == 0 {
		input.ApprovalThreshold = Governance.Config().DefaultApproval
	}

	proposal, err := Governance.Create(authorID, input)
	if err != nil {
		switch {
		case errors.Is(err, governance.ErrInvalidProposal):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid proposal!", nil)
		case errors.Is(err, governance.ErrNotEligible):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enough voting weight to create a proposal!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create proposal!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Proposal created successfully!", proposal)
}

// ActivateProposal opens a Draft proposal for voting
func ActivateProposal(c *fiber.Ctx) error {
	callerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	proposalID, ok := c.Locals("proposalID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	proposal, err := Governance.Activate(proposalID, callerID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, governance.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Proposal not found!", nil)
		case errors.Is(err, governance.ErrUnauthorized):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the author or an admin can activate this proposal!", nil)
		case errors.Is(err, governance.ErrInvalidTransition):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Proposal cannot be activated from its current state!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to activate proposal!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Proposal activated!", proposal)
}

// CastVote records the current user's ballot on an active proposal
func CastVote(c *fiber.Ctx) error {
	voterID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	proposalID, ok := c.Locals("proposalID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	choice, ok := c.Locals("validatedChoice").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ballot, err := Governance.CastVote(proposalID, voterID, choice, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, governance.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Proposal not found!", nil)
		case errors.Is(err, governance.ErrNotEligible):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not eligible to vote!", nil)
		case errors.Is(err, governance.ErrProposalNotActive):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Proposal is not open for voting!", nil)
		case errors.Is(err, governance.ErrInvalidProposal):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid vote!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to cast vote!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Vote recorded!", ballot)
}

// ExecuteProposal applies a passed proposal's effect (admin)
func ExecuteProposal(c *fiber.Ctx) error {
	callerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	proposalID, ok := c.Locals("proposalID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	proposal, err := Governance.Execute(proposalID, callerID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, governance.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Proposal not found!", nil)
		case errors.Is(err, governance.ErrUnauthorized):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can execute proposals!", nil)
		case errors.Is(err, governance.ErrProposalNotPassed):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Proposal has not passed!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to execute proposal!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Proposal executed!", proposal)
}

// GetProposal returns one proposal with its tally and audit trail
func GetProposal(c *fiber.Ctx) error {
	proposalID, ok := c.Locals("proposalID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	proposal, err := Governance.Get(proposalID, time.Now())
	if err != nil {
		if errors.Is(err, governance.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Proposal not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch proposal!", nil)
	}

	tally, err := Governance.Tally(proposalID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch proposal!", nil)
	}
	events, _ := Governance.Events(proposalID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Proposal fetched successfully!", fiber.Map{
		"proposal": proposal,
		"tally":    tally,
		"events":   events,
	})
}

// GetActiveProposals lists open proposals, soonest-closing first
func GetActiveProposals(c *fiber.Ctx) error {
	limit, _ := c.Locals("validatedLimit").(int)

	proposals, err := Governance.GetActive(limit, time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch proposals!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active proposals fetched successfully!", fiber.Map{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

// GetProposalHistory lists proposals filtered by state, newest first
func GetProposalHistory(c *fiber.Ctx) error {
	state, _ := c.Locals("validatedState").(string)
	limit, _ := c.Locals("validatedLimit").(int)

	proposals, err := Governance.History(state, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch proposals!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Proposals fetched successfully!", fiber.Map{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

// GetMyProposals lists the current user's proposals
func GetMyProposals(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	proposals, err := Governance.ProposalsBy(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch proposals!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Proposals fetched successfully!", fiber.Map{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

// GetProposalVotes lists the ballots cast on a proposal
func GetProposalVotes(c *fiber.Ctx) error {
	proposalID, ok := c.Locals("proposalID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	ballots, err := Governance.VotesFor(proposalID)
	if err != nil {
		if errors.Is(err, governance.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Proposal not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch votes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Votes fetched successfully!", fiber.Map{
		"votes": ballots,
		"total": len(ballots),
	})
}

// GetGovernanceStats summarizes the governance ledger
func GetGovernanceStats(c *fiber.Ctx) error {
	stats, err := Governance.Stats()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Governance stats fetched successfully!", fiber.Map{
		"stats":  stats,
		"config": Governance.Config(),
	})
}
