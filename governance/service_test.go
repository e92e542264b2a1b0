package governance_test

import (
	"testing"
	"time"

	"eduledger/governance"
	"eduledger/governance/store"
	"eduledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIdentity implements gateways.Identity for tests
type stubIdentity struct {
	registered map[uint]bool
	roles      map[uint]string
	weights    map[uint]uint64
	total      uint64
}

func (s *stubIdentity) IsRegistered(userID uint) bool {
	return s.registered[userID]
}

func (s *stubIdentity) HasRole(userID uint, roles ...string) bool {
	for _, role := range roles {
		if s.roles[userID] == role {
			return true
		}
	}
	return false
}

func (s *stubIdentity) VotingWeight(userID uint) uint64 {
	return s.weights[userID]
}

func (s *stubIdentity) TotalVotingWeight() uint64 {
	return s.total
}

const (
	author   = uint(1)
	admin    = uint(2)
	voterA   = uint(3)
	voterB   = uint(4)
	voterC   = uint(5)
	stranger = uint(6)
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newService builds a governance service over the memory store with a
// 72h voting window and 1000 total eligible weight
func newService(t *testing.T) (*governance.Service, *stubIdentity) {
	t.Helper()

	identity := &stubIdentity{
		registered: map[uint]bool{author: true, admin: true, voterA: true, voterB: true, voterC: true},
		roles:      map[uint]string{admin: models.RoleAdmin},
		weights: map[uint]uint64{
			author: 100,
			admin:  100,
			voterA: 400,
			voterB: 300,
			voterC: 100,
		},
		total: 1000,
	}
	config := &governance.Config{
		VotingWindow:      72 * time.Hour,
		MinProposalWeight: 100,
		DefaultQuorum:     30,
		DefaultApproval:   51,
	}
	return governance.NewService(store.NewMemoryStore(), identity, governance.NopExecutor{}, config), identity
}

func createInput() governance.CreateInput {
	return governance.CreateInput{
		Title:             "Add peer review to course completion",
		Body:              "Completion should require one accepted peer review.",
		QuorumThreshold:   50,
		ApprovalThreshold: 60,
	}
}

// activated creates and activates a proposal at epoch
func activated(t *testing.T, service *governance.Service) *models.Proposal {
	t.Helper()

	proposal, err := service.Create(author, createInput())
	require.NoError(t, err)
	proposal, err = service.Activate(proposal.ID, author, epoch)
	require.NoError(t, err)
	return proposal
}

func TestCreateProposal(t *testing.T) {
	service, identity := newService(t)

	t.Run("assigns monotonic ids and starts in draft", func(t *testing.T) {
		first, err := service.Create(author, createInput())
		require.NoError(t, err)
		assert.Equal(t, models.ProposalDraft, first.State)

		second, err := service.Create(author, createInput())
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("rejects empty title or body", func(t *testing.T) {
		input := createInput()
		input.Title = "   "
		_, err := service.Create(author, input)
		assert.ErrorIs(t, err, governance.ErrInvalidProposal)

		input = createInput()
		input.Body = ""
		_, err = service.Create(author, input)
		assert.ErrorIs(t, err, governance.ErrInvalidProposal)
	})

	t.Run("rejects thresholds outside (0,100]", func(t *testing.T) {
		input := createInput()
		input.QuorumThreshold = 0
		_, err := service.Create(author, input)
		assert.ErrorIs(t, err, governance.ErrInvalidProposal)

		input = createInput()
		input.ApprovalThreshold = 101
		_, err = service.Create(author, input)
		assert.ErrorIs(t, err, governance.ErrInvalidProposal)
	})

	t.Run("rejects unregistered author", func(t *testing.T) {
		_, err := service.Create(stranger, createInput())
		assert.ErrorIs(t, err, governance.ErrNotEligible)
	})

	t.Run("rejects author below minimum weight", func(t *testing.T) {
		identity.registered[stranger] = true
		identity.weights[stranger] = 10
		defer delete(identity.registered, stranger)

		_, err := service.Create(stranger, createInput())
		assert.ErrorIs(t, err, governance.ErrNotEligible)
	})
}

func TestActivateProposal(t *testing.T) {
	service, _ := newService(t)

	proposal, err := service.Create(author, createInput())
	require.NoError(t, err)

	t.Run("rejects caller who is neither author nor admin", func(t *testing.T) {
		_, err := service.Activate(proposal.ID, voterA, epoch)
		assert.ErrorIs(t, err, governance.ErrUnauthorized)
	})

	t.Run("author opens the voting window", func(t *testing.T) {
		active, err := service.Activate(proposal.ID, author, epoch)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalActive, active.State)
		require.NotNil(t, active.OpensAt)
		require.NotNil(t, active.ClosesAt)
		assert.Equal(t, epoch, *active.OpensAt)
		assert.Equal(t, epoch.Add(72*time.Hour), *active.ClosesAt)
	})

	t.Run("re-activation is an invalid transition", func(t *testing.T) {
		_, err := service.Activate(proposal.ID, author, epoch)
		assert.ErrorIs(t, err, governance.ErrInvalidTransition)
	})

	t.Run("unknown proposal reports not found", func(t *testing.T) {
		_, err := service.Activate(999, author, epoch)
		assert.ErrorIs(t, err, governance.ErrNotFound)
	})
}

func TestCastVote(t *testing.T) {
	service, identity := newService(t)

	t.Run("rejects vote on draft proposal", func(t *testing.T) {
		draft, err := service.Create(author, createInput())
		require.NoError(t, err)

		_, err = service.CastVote(draft.ID, voterA, models.VoteFor, epoch)
		assert.ErrorIs(t, err, governance.ErrProposalNotActive)
	})

	proposal := activated(t, service)

	t.Run("rejects unregistered voter", func(t *testing.T) {
		_, err := service.CastVote(proposal.ID, stranger, models.VoteFor, epoch.Add(time.Hour))
		assert.ErrorIs(t, err, governance.ErrNotEligible)
	})

	t.Run("freezes weight at cast time", func(t *testing.T) {
		ballot, err := service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, uint64(400), ballot.Weight)

		// Later reputation changes do not touch the recorded ballot
		identity.weights[voterA] = 50
		tally, err := service.Tally(proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), tally.ForWeight)
		identity.weights[voterA] = 400
	})

	t.Run("last cast wins while the window is open", func(t *testing.T) {
		_, err := service.CastVote(proposal.ID, voterB, models.VoteFor, epoch.Add(time.Hour))
		require.NoError(t, err)
		_, err = service.CastVote(proposal.ID, voterB, models.VoteAgainst, epoch.Add(2*time.Hour))
		require.NoError(t, err)

		tally, err := service.Tally(proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(400), tally.ForWeight)     // voterA only
		assert.Equal(t, uint64(300), tally.AgainstWeight) // voterB's second choice

		ballots, err := service.VotesFor(proposal.ID)
		require.NoError(t, err)
		assert.Len(t, ballots, 2) // one ballot per voter, not per cast
	})

	t.Run("rejects vote after the deadline before any clock tick", func(t *testing.T) {
		_, err := service.CastVote(proposal.ID, voterC, models.VoteFor, epoch.Add(73*time.Hour))
		assert.ErrorIs(t, err, governance.ErrProposalNotActive)
	})

	t.Run("rejects malformed choice", func(t *testing.T) {
		fresh := activated(t, service)
		_, err := service.CastVote(fresh.ID, voterA, "MAYBE", epoch.Add(time.Hour))
		assert.ErrorIs(t, err, governance.ErrInvalidProposal)
	})
}

func TestDeadlineTransitions(t *testing.T) {
	t.Run("expires when quorum is not met", func(t *testing.T) {
		service, _ := newService(t)
		proposal := activated(t, service)

		// 400 of 1000 eligible weight participates, all FOR; quorum is 50
		_, err := service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
		require.NoError(t, err)

		after, err := service.Get(proposal.ID, epoch.Add(80*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.ProposalExpired, after.State)
	})

	t.Run("passes when quorum and approval are met", func(t *testing.T) {
		service, _ := newService(t)
		proposal := activated(t, service)

		// 700 of 1000 participates; contested split 400 FOR / 300 AGAINST
		// is ~57 percent, short of the 60 threshold -> rejected. Flip
		// voterB and it passes.
		_, err := service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
		require.NoError(t, err)
		_, err = service.CastVote(proposal.ID, voterB, models.VoteFor, epoch.Add(time.Hour))
		require.NoError(t, err)

		after, err := service.Get(proposal.ID, epoch.Add(80*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.ProposalPassed, after.State)
	})

	t.Run("rejects when approval falls short", func(t *testing.T) {
		service, _ := newService(t)
		proposal := activated(t, service)

		_, err := service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
		require.NoError(t, err)
		_, err = service.CastVote(proposal.ID, voterB, models.VoteAgainst, epoch.Add(time.Hour))
		require.NoError(t, err)

		after, err := service.Get(proposal.ID, epoch.Add(80*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.ProposalRejected, after.State)
	})

	t.Run("uncontested participation meets quorum but never passes", func(t *testing.T) {
		service, _ := newService(t)
		proposal := activated(t, service)

		// Abstentions alone: quorum met, approval denominator empty
		_, err := service.CastVote(proposal.ID, voterA, models.VoteAbstain, epoch.Add(time.Hour))
		require.NoError(t, err)
		_, err = service.CastVote(proposal.ID, voterB, models.VoteAbstain, epoch.Add(time.Hour))
		require.NoError(t, err)

		after, err := service.Get(proposal.ID, epoch.Add(80*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.ProposalRejected, after.State)
	})

	t.Run("sweep finalizes due proposals", func(t *testing.T) {
		service, _ := newService(t)
		first := activated(t, service)
		second := activated(t, service)

		finalized, err := service.FinalizeDue(epoch.Add(80 * time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, finalized)

		for _, id := range []uint{first.ID, second.ID} {
			proposal, err := service.Get(id, epoch.Add(80*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, models.ProposalExpired, proposal.State)
		}
	})
}

func TestExecuteProposal(t *testing.T) {
	service, _ := newService(t)
	proposal := activated(t, service)

	// Drive it to Passed
	_, err := service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
	require.NoError(t, err)
	_, err = service.CastVote(proposal.ID, voterB, models.VoteFor, epoch.Add(time.Hour))
	require.NoError(t, err)

	afterClose := epoch.Add(80 * time.Hour)

	t.Run("rejects non-admin caller", func(t *testing.T) {
		_, err := service.Execute(proposal.ID, author, afterClose)
		assert.ErrorIs(t, err, governance.ErrUnauthorized)
	})

	t.Run("admin executes a passed proposal", func(t *testing.T) {
		executed, err := service.Execute(proposal.ID, admin, afterClose)
		require.NoError(t, err)
		assert.Equal(t, models.ProposalExecuted, executed.State)
		require.NotNil(t, executed.ExecutedAt)
	})

	t.Run("repeated execution is a no-op", func(t *testing.T) {
		first, err := service.Execute(proposal.ID, admin, afterClose)
		require.NoError(t, err)

		second, err := service.Execute(proposal.ID, admin, afterClose.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, first.ExecutedAt, second.ExecutedAt)
		assert.Equal(t, models.ProposalExecuted, second.State)
	})

	t.Run("expired proposal cannot be executed", func(t *testing.T) {
		expired := activated(t, service)
		_, err := service.Execute(expired.ID, admin, afterClose)
		assert.ErrorIs(t, err, governance.ErrProposalNotPassed)
	})
}

func TestGetActiveOrdering(t *testing.T) {
	service, _ := newService(t)

	// Activation times stagger the deadlines
	late, err := service.Create(author, createInput())
	require.NoError(t, err)
	_, err = service.Activate(late.ID, author, epoch.Add(10*time.Hour))
	require.NoError(t, err)

	soon, err := service.Create(author, createInput())
	require.NoError(t, err)
	_, err = service.Activate(soon.ID, author, epoch)
	require.NoError(t, err)

	draft, err := service.Create(author, createInput())
	require.NoError(t, err)

	active, err := service.GetActive(0, epoch.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 2)

	// Soonest-closing first; drafts excluded
	assert.Equal(t, soon.ID, active[0].ID)
	assert.Equal(t, late.ID, active[1].ID)
	for _, proposal := range active {
		assert.NotEqual(t, draft.ID, proposal.ID)
	}

	t.Run("limit caps the sequence", func(t *testing.T) {
		capped, err := service.GetActive(1, epoch.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, capped, 1)
		assert.Equal(t, soon.ID, capped[0].ID)
	})

	t.Run("due proposals drop out on read", func(t *testing.T) {
		remaining, err := service.GetActive(0, epoch.Add(73*time.Hour))
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, late.ID, remaining[0].ID)
	})
}

func TestAuditTrail(t *testing.T) {
	service, _ := newService(t)
	proposal := activated(t, service)

	_, err := service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
	require.NoError(t, err)
	_, err = service.Get(proposal.ID, epoch.Add(80*time.Hour))
	require.NoError(t, err)

	events, err := service.Events(proposal.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)

	actions := make([]string, 0, len(events))
	for _, event := range events {
		actions = append(actions, event.Action)
		assert.NotEmpty(t, event.EventID)
	}
	assert.Equal(t, []string{
		models.ActionCreated,
		models.ActionActivated,
		models.ActionVoteCast,
		models.ActionExpired,
	}, actions)
}

func TestStats(t *testing.T) {
	service, _ := newService(t)

	proposal := activated(t, service)
	_, err := service.Create(author, createInput())
	require.NoError(t, err)
	_, err = service.CastVote(proposal.ID, voterA, models.VoteFor, epoch.Add(time.Hour))
	require.NoError(t, err)

	stats, err := service.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProposals)
	assert.Equal(t, int64(1), stats.ActiveProposals)
	assert.Equal(t, int64(1), stats.TotalBallots)
}
