package notification

import (
	"fmt"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
)

// Kind is the 32-bit discriminator leading every record
type Kind uint32

const (
	// KindCampaignCreated emitted by the factory when a campaign is deployed
	KindCampaignCreated Kind = 0x6c7e2a01

	// KindCampaignConfigured advertiser configuration finalized
	KindCampaignConfigured Kind = 0x6c7e2a02

	// KindAffiliateCreated ...
	KindAffiliateCreated Kind = 0x6c7e2a03

	// KindAffiliateApproved ...
	KindAffiliateApproved Kind = 0x6c7e2a04

	// KindAffiliateRemoved ...
	KindAffiliateRemoved Kind = 0x6c7e2a05

	// KindFundsWithdrawn advertiser withdrew campaign funds
	KindFundsWithdrawn Kind = 0x6c7e2a06

	// KindUserActionRecorded ...
	KindUserActionRecorded Kind = 0x6c7e2a07

	// KindEarningsReleased ...
	KindEarningsReleased Kind = 0x6c7e2a08

	// KindAffiliateWithdrew ...
	KindAffiliateWithdrew Kind = 0x6c7e2a09

	// KindCampaignPaused carries both pause and unpause
	KindCampaignPaused Kind = 0x6c7e2a0a
)

var kindNames = map[Kind]string{
	KindCampaignCreated:    "campaign_created",
	KindCampaignConfigured: "campaign_configured",
	KindAffiliateCreated:   "affiliate_created",
	KindAffiliateApproved:  "affiliate_approved",
	KindAffiliateRemoved:   "affiliate_removed",
	KindFundsWithdrawn:     "funds_withdrawn",
	KindUserActionRecorded: "user_action_recorded",
	KindEarningsReleased:   "earnings_released",
	KindAffiliateWithdrew:  "affiliate_withdrew",
	KindCampaignPaused:     "campaign_paused",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("unknown(0x%08x)", uint32(k))
	}
	return name
}

// Known reports whether a decoder exists for this discriminator
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// Event is a typed notification
type Event interface {
	Kind() Kind
}

// CampaignCreated ...
type CampaignCreated struct {
	CampaignID uint64        `json:"campaign_id"`
	Advertiser model.Address `json:"advertiser"`
}

// CostEntry is one configured action type with both tier prices
type CostEntry struct {
	ActionCode model.ActionCode `json:"action_code"`
	Regular    model.Amount     `json:"regular"`
	Premium    model.Amount     `json:"premium"`
}

// CampaignConfigured ...
type CampaignConfigured struct {
	CampaignID       uint64              `json:"campaign_id"`
	PaymentMethod    model.PaymentMethod `json:"payment_method"`
	IsPublic         bool                `json:"is_public"`
	RequiresApproval bool                `json:"requires_approval"`

	// ValidUntil unix seconds, zero when the campaign never expires
	ValidUntil int64       `json:"valid_until"`
	Costs      []CostEntry `json:"costs"`
}

// AffiliateCreated ...
type AffiliateCreated struct {
	CampaignID    uint64              `json:"campaign_id"`
	AffiliateID   uint32              `json:"affiliate_id"`
	Owner         model.Address       `json:"owner"`
	ApprovalState model.ApprovalState `json:"approval_state"`
}

// AffiliateApproved ...
type AffiliateApproved struct {
	CampaignID  uint64 `json:"campaign_id"`
	AffiliateID uint32 `json:"affiliate_id"`
}

// AffiliateRemoved ...
type AffiliateRemoved struct {
	CampaignID  uint64        `json:"campaign_id"`
	AffiliateID uint32        `json:"affiliate_id"`
	Owner       model.Address `json:"owner"`
}

// FundsWithdrawn ...
type FundsWithdrawn struct {
	CampaignID       uint64        `json:"campaign_id"`
	Advertiser       model.Address `json:"advertiser"`
	Amount           model.Amount  `json:"amount"`
	RemainingBalance model.Amount  `json:"remaining_balance"`
}

// UserActionRecorded ...
type UserActionRecorded struct {
	CampaignID    uint64           `json:"campaign_id"`
	AffiliateID   uint32           `json:"affiliate_id"`
	ActionCode    model.ActionCode `json:"action_code"`
	IsPremium     bool             `json:"is_premium"`
	Commission    model.Amount     `json:"commission"`
	TotalEarnings model.Amount     `json:"total_earnings"`
}

// EarningsReleased ...
type EarningsReleased struct {
	CampaignID  uint64       `json:"campaign_id"`
	AffiliateID uint32       `json:"affiliate_id"`
	Amount      model.Amount `json:"amount"`
}

// AffiliateWithdrew ...
type AffiliateWithdrew struct {
	CampaignID  uint64        `json:"campaign_id"`
	AffiliateID uint32        `json:"affiliate_id"`
	Owner       model.Address `json:"owner"`
	Amount      model.Amount  `json:"amount"`
}

// CampaignPaused ...
type CampaignPaused struct {
	CampaignID uint64 `json:"campaign_id"`
	Paused     bool   `json:"paused"`
}

// Unknown keeps records whose discriminator has no decoder
type Unknown struct {
	Discriminator uint32 `json:"discriminator"`
	Payload       []byte `json:"payload"`
}

// Kind ...
func (CampaignCreated) Kind() Kind { return KindCampaignCreated }

// Kind ...
func (CampaignConfigured) Kind() Kind { return KindCampaignConfigured }

// Kind ...
func (AffiliateCreated) Kind() Kind { return KindAffiliateCreated }

// Kind ...
func (AffiliateApproved) Kind() Kind { return KindAffiliateApproved }

// Kind ...
func (AffiliateRemoved) Kind() Kind { return KindAffiliateRemoved }

// Kind ...
func (FundsWithdrawn) Kind() Kind { return KindFundsWithdrawn }

// Kind ...
func (UserActionRecorded) Kind() Kind { return KindUserActionRecorded }

// Kind ...
func (EarningsReleased) Kind() Kind { return KindEarningsReleased }

// Kind ...
func (AffiliateWithdrew) Kind() Kind { return KindAffiliateWithdrew }

// Kind ...
func (CampaignPaused) Kind() Kind { return KindCampaignPaused }

// Kind ...
func (u Unknown) Kind() Kind { return Kind(u.Discriminator) }

// CampaignOf returns the campaign id carried by a typed event
func CampaignOf(evt Event) (uint64, bool) {
	switch e := evt.(type) {
	case CampaignCreated:
		return e.CampaignID, true
	case CampaignConfigured:
		return e.CampaignID, true
	case AffiliateCreated:
		return e.CampaignID, true
	case AffiliateApproved:
		return e.CampaignID, true
	case AffiliateRemoved:
		return e.CampaignID, true
	case FundsWithdrawn:
		return e.CampaignID, true
	case UserActionRecorded:
		return e.CampaignID, true
	case EarningsReleased:
		return e.CampaignID, true
	case AffiliateWithdrew:
		return e.CampaignID, true
	case CampaignPaused:
		return e.CampaignID, true
	default:
		return 0, false
	}
}
