package governanceRoutes

import (
	controllers "eduledger/controllers/governance"
	"eduledger/middleware"
	validators "eduledger/validators/governance"

	"github.com/gofiber/fiber/v2"
)

// SetupGovernanceRoutes sets up all governance routes
func SetupGovernanceRoutes(app *fiber.App) {
	govGroup := app.Group("/governance")

	// Proposal lifecycle
	govGroup.Post("/proposal", middleware.JWTMiddleware, validators.CreateProposal(), controllers.CreateProposal)
	govGroup.Post("/proposal/:id/activate", middleware.JWTMiddleware, validators.ProposalID(), controllers.ActivateProposal)
	govGroup.Post("/proposal/:id/vote", middleware.JWTMiddleware, validators.ProposalID(), validators.CastVote(), controllers.CastVote)
	govGroup.Post("/proposal/:id/execute", middleware.JWTMiddleware, validators.ProposalID(), controllers.ExecuteProposal)

	// Queries
	govGroup.Get("/active", middleware.JWTMiddleware, validators.ProposalList(), controllers.GetActiveProposals)
	govGroup.Get("/history", middleware.JWTMiddleware, validators.ProposalList(), controllers.GetProposalHistory)
	govGroup.Get("/mine", middleware.JWTMiddleware, controllers.GetMyProposals)
	govGroup.Get("/stats", middleware.JWTMiddleware, controllers.GetGovernanceStats)
	govGroup.Get("/proposal/:id", middleware.JWTMiddleware, validators.ProposalID(), controllers.GetProposal)
	govGroup.Get("/proposal/:id/votes", middleware.JWTMiddleware, validators.ProposalID(), controllers.GetProposalVotes)
}
