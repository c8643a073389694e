package model

import (
	"database/sql"
	"time"
)

// Address of an account on the ledger
type Address string

// ActionCode identifies a user action type
type ActionCode uint32

// CostPerAction maps an action code to its commission
type CostPerAction map[ActionCode]Amount

// Clone ...
func (c CostPerAction) Clone() CostPerAction {
	if c == nil {
		return nil
	}
	result := make(CostPerAction, len(c))
	for k, v := range c {
		result[k] = v
	}
	return result
}

// Campaign is the read model of one campaign ledger
type Campaign struct {
	ID         uint64  `json:"id"`
	Advertiser Address `json:"advertiser"`
	Verifier   Address `json:"verifier"`
	Admin      Address `json:"admin"`

	State         CampaignState `json:"state"`
	PaymentMethod PaymentMethod `json:"payment_method"`

	IsPublicCampaign              bool `json:"is_public_campaign"`
	RequiresApprovalForWithdrawal bool `json:"requires_approval_for_withdrawal"`

	RegularCostPerAction CostPerAction `json:"regular_cost_per_action"`
	PremiumCostPerAction CostPerAction `json:"premium_cost_per_action"`

	CampaignStartTimestamp  sql.NullTime `json:"campaign_start_timestamp"`
	ValidUntil              sql.NullTime `json:"valid_until"`
	LastUserActionTimestamp sql.NullTime `json:"last_user_action_timestamp"`

	Balance           Amount `json:"balance"`
	GasBuffer         Amount `json:"gas_buffer"`
	RequiredGasBuffer Amount `json:"required_gas_buffer"`

	NumAffiliates   uint32 `json:"num_affiliates"`
	MaxAffiliates   uint32 `json:"max_affiliates"`
	NextAffiliateID uint32 `json:"next_affiliate_id"`
	NumUserActions  uint64 `json:"num_user_actions"`

	TopAffiliates []LeaderboardEntry `json:"top_affiliates"`

	AdminPaused bool `json:"admin_paused"`

	// Live is derived at read time, never stored
	Live bool `json:"live"`
}

// Expired ...
func (c Campaign) Expired(now time.Time) bool {
	return c.ValidUntil.Valid && !now.Before(c.ValidUntil.Time)
}

// CampaignState ...
type CampaignState int

const (
	// CampaignStateUninitialized ...
	CampaignStateUninitialized CampaignState = 0

	// CampaignStateConfiguredActive ...
	CampaignStateConfiguredActive CampaignState = 1
)

// PaymentMethod ...
type PaymentMethod int

const (
	// PaymentMethodNative ...
	PaymentMethodNative PaymentMethod = 0

	// PaymentMethodSecondaryToken a jetton-style fungible token
	PaymentMethodSecondaryToken PaymentMethod = 1
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodNative:
		return "native"
	case PaymentMethodSecondaryToken:
		return "token"
	default:
		return "unknown"
	}
}

// LeaderboardEntry ...
type LeaderboardEntry struct {
	AffiliateID   uint32 `json:"affiliate_id"`
	TotalEarnings Amount `json:"total_earnings"`
}
