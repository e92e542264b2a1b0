package executor_test

import (
	"testing"
	"time"

	"eduledger/governance"
	"eduledger/governance/executor"
	"eduledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changeParamProposal(parameter, value string) *models.Proposal {
	return &models.Proposal{
		Type: models.ProposalTypeChangeParam,
		Data: map[string]interface{}{"parameter": parameter, "value": value},
	}
}

func TestExecuteChangeParam(t *testing.T) {
	config := governance.DefaultConfig()
	exec := executor.NewExecutor(nil, config)

	t.Run("updates the voting window", func(t *testing.T) {
		err := exec.Execute(changeParamProposal("voting_window_hours", "48"))
		require.NoError(t, err)
		assert.Equal(t, 48*time.Hour, config.VotingWindow)
	})

	t.Run("updates the minimum proposal weight", func(t *testing.T) {
		err := exec.Execute(changeParamProposal("min_proposal_weight", "250"))
		require.NoError(t, err)
		assert.Equal(t, uint64(250), config.MinProposalWeight)
	})

	t.Run("updates default thresholds", func(t *testing.T) {
		require.NoError(t, exec.Execute(changeParamProposal("default_quorum", "40")))
		require.NoError(t, exec.Execute(changeParamProposal("default_approval", "66")))
		assert.Equal(t, uint(40), config.DefaultQuorum)
		assert.Equal(t, uint(66), config.DefaultApproval)
	})

	t.Run("rejects out-of-range percent", func(t *testing.T) {
		assert.Error(t, exec.Execute(changeParamProposal("default_quorum", "101")))
		assert.Error(t, exec.Execute(changeParamProposal("default_approval", "0")))
	})

	t.Run("rejects unknown parameter", func(t *testing.T) {
		assert.Error(t, exec.Execute(changeParamProposal("max_ballots", "5")))
	})

	t.Run("rejects missing data keys", func(t *testing.T) {
		proposal := &models.Proposal{
			Type: models.ProposalTypeChangeParam,
			Data: map[string]interface{}{"parameter": "default_quorum"},
		}
		assert.Error(t, exec.Execute(proposal))
	})
}

func TestExecuteText(t *testing.T) {
	exec := executor.NewExecutor(nil, governance.DefaultConfig())

	err := exec.Execute(&models.Proposal{Type: models.ProposalTypeText})
	assert.NoError(t, err)
}

func TestExecuteNil(t *testing.T) {
	exec := executor.NewExecutor(nil, governance.DefaultConfig())
	assert.Error(t, exec.Execute(nil))
}
