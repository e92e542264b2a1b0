package governanceValidator

import (
	"eduledger/middleware"
	"eduledger/models"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var proposalTypes = map[string]bool{
	models.ProposalTypeText:                   true,
	models.ProposalTypeCourseApproval:         true,
	models.ProposalTypeInstructorVerification: true,
	models.ProposalTypeChangeParam:            true,
}

var voteChoices = map[string]bool{
	models.VoteFor:     true,
	models.VoteAgainst: true,
	models.VoteAbstain: true,
}

func CreateProposal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title             string            `json:"title"`
			Body              string            `json:"body"`
			Type              string            `json:"type"`
			Data              map[string]string `json:"data"`
			QuorumThreshold   uint              `json:"quorum_threshold"`
			ApprovalThreshold uint              `json:"approval_threshold"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Body
		if strings.TrimSpace(reqData.Body) == "" {
			errors["body"] = "Body is required!"
		}

		// Validate Type
		if reqData.Type != "" && !proposalTypes[reqData.Type] {
			errors["type"] = "Unknown proposal type!"
		}

		// Validate thresholds (percentages, 1-100)
		if reqData.QuorumThreshold != 0 && reqData.QuorumThreshold > 100 {
			errors["quorum_threshold"] = "Quorum threshold must be between 1 and 100!"
		}
		if reqData.ApprovalThreshold != 0 && reqData.ApprovalThreshold > 100 {
			errors["approval_threshold"] = "Approval threshold must be between 1 and 100!"
		}

		// Respond with validation errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProposal", reqData)
		return c.Next()
	}
}

func ProposalID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "Proposal id must be a positive number!",
			})
		}

		c.Locals("proposalID", uint(id))
		return c.Next()
	}
}

func CastVote() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Choice string `json:"choice"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Choice
		choice := strings.ToUpper(strings.TrimSpace(reqData.Choice))
		if choice == "" {
			errors["choice"] = "Choice is required!"
		} else if !voteChoices[choice] {
			errors["choice"] = "Choice must be FOR, AGAINST or ABSTAIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChoice", choice)
		return c.Next()
	}
}

func ProposalList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			State string `query:"state"`
			Limit *int   `query:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate State
		state := strings.ToUpper(strings.TrimSpace(reqData.State))
		if state != "" {
			switch state {
			case models.ProposalDraft, models.ProposalActive, models.ProposalPassed,
				models.ProposalRejected, models.ProposalExecuted, models.ProposalExpired:
			default:
				errors["state"] = "Unknown proposal state!"
			}
		}

		// Validate Limit
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		limit := 0
		if reqData.Limit != nil {
			limit = *reqData.Limit
		}
		c.Locals("validatedState", state)
		c.Locals("validatedLimit", limit)
		return c.Next()
	}
}
