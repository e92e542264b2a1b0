package governance

import "time"

// Config holds the governance parameters captured from the platform
// configuration at startup. Thresholds are whole percentages.
type Config struct {
	VotingWindow      time.Duration `json:"voting_window"`
	MinProposalWeight uint64        `json:"min_proposal_weight"`
	DefaultQuorum     uint          `json:"default_quorum"`
	DefaultApproval   uint          `json:"default_approval"`
}

// DefaultConfig returns the default governance configuration
func DefaultConfig() *Config {
	return &Config{
		VotingWindow:      7 * 24 * time.Hour, // 1 week
		MinProposalWeight: 100,
		DefaultQuorum:     30,
		DefaultApproval:   51,
	}
}

// CreateInput carries the caller-supplied fields for a new proposal
type CreateInput struct {
	Title             string            `json:"title"`
	Body              string            `json:"body"`
	Type              string            `json:"type"`
	Data              map[string]string `json:"data"`
	QuorumThreshold   uint              `json:"quorum_threshold"`
	ApprovalThreshold uint              `json:"approval_threshold"`
}

// Tally is the point-in-time vote arithmetic for one proposal. It is
// recomputed from the ballot set on every call, never cached.
type Tally struct {
	ForWeight           uint64 `json:"for_weight"`
	AgainstWeight       uint64 `json:"against_weight"`
	AbstainWeight       uint64 `json:"abstain_weight"`
	TotalEligibleWeight uint64 `json:"total_eligible_weight"`
}

// Participating returns the summed weight of all cast ballots
func (t *Tally) Participating() uint64 {
	return t.ForWeight + t.AgainstWeight + t.AbstainWeight
}

// MeetsQuorum reports whether participation reaches the quorum
// threshold (percent of total eligible weight). Integer arithmetic, no
// float drift.
func (t *Tally) MeetsQuorum(quorumThreshold uint) bool {
	if t.TotalEligibleWeight == 0 {
		return false
	}
	return t.Participating()*100 >= uint64(quorumThreshold)*t.TotalEligibleWeight
}

// Approved reports whether the for-share of contested weight reaches the
// approval threshold. Abstentions express presence without position and
// are excluded from the denominator; with no contested weight at all the
// ratio is zero, so a proposal never passes on quorum alone.
func (t *Tally) Approved(approvalThreshold uint) bool {
	contested := t.ForWeight + t.AgainstWeight
	if contested == 0 {
		return false
	}
	return t.ForWeight*100 >= uint64(approvalThreshold)*contested
}

// Stats summarizes the governance ledger
type Stats struct {
	TotalProposals    int64 `json:"total_proposals"`
	ActiveProposals   int64 `json:"active_proposals"`
	ExecutedProposals int64 `json:"executed_proposals"`
	TotalBallots      int64 `json:"total_ballots"`
}
