package ledger

import (
	"database/sql"
	"sort"
	"time"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
)

// MaxAffiliatesPerPage bounds AffiliatesRange
const MaxAffiliatesPerPage = 100

// Params returns the deployment parameters, including the current verifier
func (l *Ledger) Params() Params {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.params
}

// Snapshot returns a copy of all campaign fields with liveness evaluated at now
func (l *Ledger) Snapshot(now time.Time) model.Campaign {
	l.mu.Lock()
	defer l.mu.Unlock()

	return model.Campaign{
		ID:         l.params.CampaignID,
		Advertiser: l.params.Advertiser,
		Verifier:   l.params.Verifier,
		Admin:      l.params.Admin,

		State:         l.state,
		PaymentMethod: l.paymentMethod,

		IsPublicCampaign:              l.isPublic,
		RequiresApprovalForWithdrawal: l.requiresApprovalForWithdrawal,

		RegularCostPerAction: l.regularCosts.Clone(),
		PremiumCostPerAction: l.premiumCosts.Clone(),

		CampaignStartTimestamp:  nullTime(l.startTimestamp),
		ValidUntil:              l.validUntil,
		LastUserActionTimestamp: l.lastUserActionTimestamp,

		Balance:           l.balance,
		GasBuffer:         l.gasBuffer,
		RequiredGasBuffer: l.params.RequiredGasBuffer,

		NumAffiliates:   l.numAffiliates,
		MaxAffiliates:   l.params.MaxAffiliates,
		NextAffiliateID: l.nextAffiliateID,
		NumUserActions:  l.numUserActions,

		TopAffiliates: l.board.snapshot(),
		AdminPaused:   l.paused,

		Live: l.live(now),
	}
}

// Affiliate returns a copy of one affiliate
func (l *Ledger) Affiliate(id uint32) (model.Affiliate, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	aff, ok := l.affiliates[id]
	if !ok {
		return model.Affiliate{}, false
	}
	return aff.Clone(), true
}

// AffiliatesRange returns existing affiliates with from <= id < to, at most MaxAffiliatesPerPage
func (l *Ledger) AffiliatesRange(from, to uint32) []model.Affiliate {
	l.mu.Lock()
	defer l.mu.Unlock()

	if to > l.nextAffiliateID {
		to = l.nextAffiliateID
	}
	if from >= to {
		return nil
	}

	ids := make([]uint32, 0, len(l.affiliates))
	for id := range l.affiliates {
		if id >= from && id < to {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > MaxAffiliatesPerPage {
		ids = ids[:MaxAffiliatesPerPage]
	}

	result := make([]model.Affiliate, 0, len(ids))
	for _, id := range ids {
		result = append(result, l.affiliates[id].Clone())
	}
	return result
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Valid: true, Time: t}
}
