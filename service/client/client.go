package client

import (
	"context"
	"errors"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/confirm"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/chain"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ledger"
)

// Ledger is the node as seen by caller tooling, local or over HTTP
type Ledger interface {
	Submit(ctx context.Context, campaignID uint64, msg ledger.Message) error
	Campaign(ctx context.Context, campaignID uint64) (model.Campaign, error)
	Affiliate(ctx context.Context, campaignID uint64, affiliateID uint32) (model.Affiliate, error)
	RecentTransactions(ctx context.Context, campaignID uint64, limit int) ([]model.Transaction, error)
}

// Client submits ledger operations as one account and waits for each to be confirmed.
// Failures are *confirm.FailedError or confirm.ErrTimedOutUnknown.
type Client struct {
	ledger    Ledger
	account   model.Address
	confirmer *confirm.Confirmer
}

// NewClient ...
func NewClient(l Ledger, account model.Address, conf confirm.Config, options ...confirm.Option) *Client {
	options = append([]confirm.Option{confirm.WithCatalog(ledger.Describe)}, options...)
	return &Client{
		ledger:    l,
		account:   account,
		confirmer: confirm.NewConfirmer(l, conf, options...),
	}
}

// Account ...
func (c *Client) Account() model.Address {
	return c.account
}

func (c *Client) run(
	ctx context.Context, campaignID uint64, value model.Amount, op ledger.Operation, snapshot confirm.SnapshotFunc,
) (interface{}, error) {
	return c.confirmer.Run(ctx, confirm.Request{
		CampaignID: campaignID,
		Caller:     c.account,
		Snapshot:   snapshot,
		Submit: func(ctx context.Context) error {
			return c.ledger.Submit(ctx, campaignID, ledger.Message{
				Sender: c.account,
				Value:  value,
				Op:     op,
			})
		},
	})
}

func (c *Client) campaignField(campaignID uint64, fn func(campaign model.Campaign) interface{}) confirm.SnapshotFunc {
	return func(ctx context.Context) (interface{}, error) {
		campaign, err := c.ledger.Campaign(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		return fn(campaign), nil
	}
}

func (c *Client) affiliateField(
	campaignID uint64, affiliateID uint32, fn func(aff model.Affiliate) interface{},
) confirm.SnapshotFunc {
	return func(ctx context.Context) (interface{}, error) {
		aff, err := c.ledger.Affiliate(ctx, campaignID, affiliateID)
		if err != nil {
			return nil, err
		}
		return fn(aff), nil
	}
}

func (c *Client) campaignAfter(ctx context.Context, campaignID uint64, op ledger.Operation, value model.Amount,
	fn func(campaign model.Campaign) interface{},
) (model.Campaign, error) {
	if _, err := c.run(ctx, campaignID, value, op, c.campaignField(campaignID, fn)); err != nil {
		return model.Campaign{}, err
	}
	return c.ledger.Campaign(ctx, campaignID)
}

func (c *Client) affiliateAfter(ctx context.Context, campaignID uint64, affiliateID uint32, op ledger.Operation,
	fn func(aff model.Affiliate) interface{},
) (model.Affiliate, error) {
	if _, err := c.run(ctx, campaignID, 0, op, c.affiliateField(campaignID, affiliateID, fn)); err != nil {
		return model.Affiliate{}, err
	}
	return c.ledger.Affiliate(ctx, campaignID, affiliateID)
}

// ================================================
// Advertiser
// ================================================

// Configure ...
func (c *Client) Configure(ctx context.Context, campaignID uint64, op ledger.Configure) (model.Campaign, error) {
	return c.campaignAfter(ctx, campaignID, op, 0, func(campaign model.Campaign) interface{} {
		return campaign.State
	})
}

type fundingSnapshot struct {
	balance   model.Amount
	gasBuffer model.Amount
}

func funding(campaign model.Campaign) interface{} {
	return fundingSnapshot{balance: campaign.Balance, gasBuffer: campaign.GasBuffer}
}

// Fund attaches native value to the campaign
func (c *Client) Fund(ctx context.Context, campaignID uint64, amount model.Amount) (model.Campaign, error) {
	return c.campaignAfter(ctx, campaignID, ledger.Fund{}, amount, funding)
}

// WithdrawFunds ...
func (c *Client) WithdrawFunds(ctx context.Context, campaignID uint64, amount model.Amount) (model.Campaign, error) {
	return c.campaignAfter(ctx, campaignID, ledger.WithdrawFunds{Amount: amount}, 0, funding)
}

// ApproveAffiliate ...
func (c *Client) ApproveAffiliate(ctx context.Context, campaignID uint64, affiliateID uint32) (model.Affiliate, error) {
	op := ledger.ApproveAffiliate{AffiliateID: affiliateID}
	return c.affiliateAfter(ctx, campaignID, affiliateID, op, func(aff model.Affiliate) interface{} {
		return aff.ApprovalState
	})
}

// RemoveAffiliate ...
func (c *Client) RemoveAffiliate(ctx context.Context, campaignID uint64, affiliateID uint32) error {
	op := ledger.RemoveAffiliate{AffiliateID: affiliateID}
	_, err := c.run(ctx, campaignID, 0, op, func(ctx context.Context) (interface{}, error) {
		_, err := c.ledger.Affiliate(ctx, campaignID, affiliateID)
		if errors.Is(err, chain.ErrAffiliateNotFound) {
			return false, nil
		}
		if err != nil {
			return nil, err
		}
		return true, nil
	})
	return err
}

func actionCount(code model.ActionCode, premium bool) func(aff model.Affiliate) interface{} {
	return func(aff model.Affiliate) interface{} {
		if premium {
			return aff.PremiumActionStats[code].Count
		}
		return aff.ActionStats[code].Count
	}
}

// RecordAdvertiserAction records an advertiser-defined event
func (c *Client) RecordAdvertiserAction(
	ctx context.Context, campaignID uint64, affiliateID uint32, code model.ActionCode, premium bool,
) (model.Affiliate, error) {
	op := ledger.UserActionByAdvertiser{AffiliateID: affiliateID, ActionCode: code, IsPremiumUser: premium}
	return c.affiliateAfter(ctx, campaignID, affiliateID, op, actionCount(code, premium))
}

// ReleaseEarnings moves the given amounts from pending to withdrawable
func (c *Client) ReleaseEarnings(ctx context.Context, campaignID uint64, amounts map[uint32]model.Amount) error {
	op := ledger.ReleaseEarnings{Amounts: amounts}
	_, err := c.run(ctx, campaignID, 0, op, func(ctx context.Context) (interface{}, error) {
		pending := make(map[uint32]model.Amount, len(amounts))
		for id := range amounts {
			aff, err := c.ledger.Affiliate(ctx, campaignID, id)
			if err != nil {
				return nil, err
			}
			pending[id] = aff.PendingApprovalEarnings
		}
		return pending, nil
	})
	return err
}

// ================================================
// Affiliate
// ================================================

// CreateAffiliate registers the client account and returns the new affiliate
func (c *Client) CreateAffiliate(ctx context.Context, campaignID uint64) (model.Affiliate, error) {
	campaign, err := c.ledger.Campaign(ctx, campaignID)
	if err != nil {
		return model.Affiliate{}, err
	}
	from := campaign.NextAffiliateID

	// the first affiliate owned by this account at or after from
	owned := func(ctx context.Context) (interface{}, error) {
		campaign, err := c.ledger.Campaign(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		for id := from; id < campaign.NextAffiliateID; id++ {
			aff, err := c.ledger.Affiliate(ctx, campaignID, id)
			if errors.Is(err, chain.ErrAffiliateNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if aff.Owner == c.account {
				return int64(id), nil
			}
		}
		return int64(-1), nil
	}

	result, err := c.run(ctx, campaignID, 0, ledger.CreateAffiliate{}, owned)
	if err != nil {
		return model.Affiliate{}, err
	}
	return c.ledger.Affiliate(ctx, campaignID, uint32(result.(int64)))
}

// Withdraw pays out all withdrawable earnings of an owned affiliate
func (c *Client) Withdraw(ctx context.Context, campaignID uint64, affiliateID uint32) (model.Affiliate, error) {
	op := ledger.AffiliateWithdraw{AffiliateID: affiliateID}
	return c.affiliateAfter(ctx, campaignID, affiliateID, op, func(aff model.Affiliate) interface{} {
		return aff.WithdrawnEarnings
	})
}

// ================================================
// Verifier and admin
// ================================================

// RecordVerifiedAction records a bot-verified event
func (c *Client) RecordVerifiedAction(
	ctx context.Context, campaignID uint64, affiliateID uint32, code model.ActionCode, premium bool,
) (model.Affiliate, error) {
	op := ledger.UserActionVerified{AffiliateID: affiliateID, ActionCode: code, IsPremiumUser: premium}
	return c.affiliateAfter(ctx, campaignID, affiliateID, op, actionCount(code, premium))
}

// Compensate restores the entitlement of a bounced token payout
func (c *Client) Compensate(
	ctx context.Context, campaignID uint64, affiliateID uint32, amount model.Amount,
) (model.Affiliate, error) {
	op := ledger.AdminCompensate{AffiliateID: affiliateID, Amount: amount}
	return c.affiliateAfter(ctx, campaignID, affiliateID, op, func(aff model.Affiliate) interface{} {
		return aff.WithdrawableEarnings
	})
}

// SetPaused ...
func (c *Client) SetPaused(ctx context.Context, campaignID uint64, paused bool) (model.Campaign, error) {
	var op ledger.Operation = ledger.AdminUnpause{}
	if paused {
		op = ledger.AdminPause{}
	}
	return c.campaignAfter(ctx, campaignID, op, 0, func(campaign model.Campaign) interface{} {
		return campaign.AdminPaused
	})
}

// ReplaceVerifier ...
func (c *Client) ReplaceVerifier(ctx context.Context, campaignID uint64, verifier model.Address) (model.Campaign, error) {
	op := ledger.AdminReplaceVerifier{Verifier: verifier}
	return c.campaignAfter(ctx, campaignID, op, 0, func(campaign model.Campaign) interface{} {
		return campaign.Verifier
	})
}
