package model

import "time"

// Affiliate is a participant registered under one campaign
type Affiliate struct {
	ID            uint32        `json:"id"`
	CampaignID    uint64        `json:"campaign_id"`
	Owner         Address       `json:"owner"`
	ApprovalState ApprovalState `json:"approval_state"`

	PendingApprovalEarnings Amount `json:"pending_approval_earnings"`
	WithdrawableEarnings    Amount `json:"withdrawable_earnings"`
	TotalEarnings           Amount `json:"total_earnings"`

	// WithdrawnEarnings is the lifetime amount already paid out
	WithdrawnEarnings Amount `json:"withdrawn_earnings"`

	ActionStats        map[ActionCode]ActionStat `json:"action_stats"`
	PremiumActionStats map[ActionCode]ActionStat `json:"premium_action_stats"`

	CreatedAt time.Time `json:"created_at"`
}

// Clone ...
func (a Affiliate) Clone() Affiliate {
	a.ActionStats = cloneStats(a.ActionStats)
	a.PremiumActionStats = cloneStats(a.PremiumActionStats)
	return a
}

func cloneStats(stats map[ActionCode]ActionStat) map[ActionCode]ActionStat {
	result := make(map[ActionCode]ActionStat, len(stats))
	for k, v := range stats {
		result[k] = v
	}
	return result
}

// Conserved checks total == pending + withdrawable + withdrawn
func (a Affiliate) Conserved() bool {
	return uint64(a.TotalEarnings) == uint64(a.PendingApprovalEarnings)+
		uint64(a.WithdrawableEarnings)+uint64(a.WithdrawnEarnings)
}

// ApprovalState ...
type ApprovalState int

const (
	// ApprovalStatePending ...
	ApprovalStatePending ApprovalState = 0

	// ApprovalStateActive ...
	ApprovalStateActive ApprovalState = 1
)

// ActionStat ...
type ActionStat struct {
	Count         uint64    `json:"count"`
	LastTimestamp time.Time `json:"last_timestamp"`
}
