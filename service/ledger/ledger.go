package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/notification"
)

// Emitter receives notifications of completed transitions
type Emitter interface {
	Emit(evt notification.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(notification.Event) {}

// Params are fixed by the factory when the campaign is deployed
type Params struct {
	CampaignID  uint64
	Advertiser  model.Address
	Verifier    model.Address
	Admin       model.Address
	TokenWallet model.Address

	// ForwardTag recognized on inbound token transfers
	ForwardTag string

	MaxAffiliates     uint32
	RequiredGasBuffer model.Amount

	// TokenTransferFee is paid from the gas buffer for every outbound token transfer
	TokenTransferFee model.Amount

	// BotActionCodeLimit splits action codes: verifier below, advertiser at or above
	BotActionCodeLimit model.ActionCode
}

// DefaultParams ...
func DefaultParams() Params {
	return Params{
		ForwardTag:         "campaign-fund",
		MaxAffiliates:      10000,
		RequiredGasBuffer:  model.MustParseAmount("1", model.NativeDecimals),
		TokenTransferFee:   model.MustParseAmount("0.05", model.NativeDecimals),
		BotActionCodeLimit: 200,
	}
}

// Result of a successful operation
type Result struct {
	AffiliateID uint32
	Payouts     []model.OutMessage
}

// Ledger is the state machine of one campaign. Every mutation goes through Execute.
type Ledger struct {
	mu sync.Mutex

	params  Params
	emitter Emitter
	nowFn   func() time.Time

	state                         model.CampaignState
	paymentMethod                 model.PaymentMethod
	isPublic                      bool
	requiresApprovalForWithdrawal bool
	regularCosts                  model.CostPerAction
	premiumCosts                  model.CostPerAction

	startTimestamp          time.Time
	validUntil              sql.NullTime
	lastUserActionTimestamp sql.NullTime

	balance   model.Amount
	gasBuffer model.Amount
	paused    bool

	affiliates      map[uint32]*model.Affiliate
	numAffiliates   uint32
	nextAffiliateID uint32
	numUserActions  uint64

	board leaderboard

	// observed holds the order in which affiliates reached their current total
	observed     map[uint32]uint64
	observeCount uint64
}

// Option ...
type Option func(l *Ledger)

// WithEmitter ...
func WithEmitter(e Emitter) Option {
	return func(l *Ledger) {
		if e != nil {
			l.emitter = e
		}
	}
}

// WithNowFunc overrides the clock for deterministic tests
func WithNowFunc(fn func() time.Time) Option {
	return func(l *Ledger) {
		if fn != nil {
			l.nowFn = fn
		}
	}
}

// New creates an unconfigured campaign
func New(params Params, options ...Option) *Ledger {
	l := &Ledger{
		params:     params,
		emitter:    nopEmitter{},
		nowFn:      time.Now,
		affiliates: map[uint32]*model.Affiliate{},
		observed:   map[uint32]uint64{},
	}
	for _, fn := range options {
		fn(l)
	}
	return l
}

// Execute runs one message to completion. Rejections leave the state untouched.
func (l *Ledger) Execute(ctx context.Context, msg Message) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFn()

	switch op := msg.Op.(type) {
	case Configure:
		return Result{}, l.configure(msg.Sender, op, now)
	case Fund:
		return Result{}, l.fund(msg.Value)
	case TokenTransferNotification:
		return Result{}, l.tokenTransferNotification(msg.Sender, op)
	case WithdrawFunds:
		return l.withdrawFunds(msg.Sender, op)
	case CreateAffiliate:
		return l.createAffiliate(msg.Sender, now)
	case ApproveAffiliate:
		return Result{}, l.approveAffiliate(msg.Sender, op)
	case RemoveAffiliate:
		return Result{}, l.removeAffiliate(msg.Sender, op)
	case UserActionVerified:
		if msg.Sender != l.params.Verifier {
			return Result{}, ErrOnlyVerifier
		}
		if op.ActionCode >= l.params.BotActionCodeLimit {
			return Result{}, ErrVerifierActionOutOfRange
		}
		return Result{}, l.recordUserAction(op.AffiliateID, op.ActionCode, op.IsPremiumUser, now)
	case UserActionByAdvertiser:
		if msg.Sender != l.params.Advertiser {
			return Result{}, ErrOnlyAdvertiser
		}
		if op.ActionCode < l.params.BotActionCodeLimit {
			return Result{}, ErrAdvertiserActionOutOfRange
		}
		return Result{}, l.recordUserAction(op.AffiliateID, op.ActionCode, op.IsPremiumUser, now)
	case ReleaseEarnings:
		return Result{}, l.releaseEarnings(msg.Sender, op)
	case AffiliateWithdraw:
		return l.affiliateWithdraw(msg.Sender, op)
	case AdminCompensate:
		return Result{}, l.adminCompensate(msg.Sender, op)
	case AdminPause:
		return Result{}, l.setPaused(msg.Sender, true)
	case AdminUnpause:
		return Result{}, l.setPaused(msg.Sender, false)
	case AdminReplaceVerifier:
		if msg.Sender != l.params.Admin {
			return Result{}, ErrOnlyAdmin
		}
		l.params.Verifier = op.Verifier
		return Result{}, nil
	default:
		panic(fmt.Sprintf("ledger: unhandled operation %T", msg.Op))
	}
}

func (l *Ledger) emit(evt notification.Event) {
	l.emitter.Emit(evt)
}

// MaxActionCodes bounds the cost table of a campaign, the configured notification must stay decodable
const MaxActionCodes = notification.MaxCostEntries

func sameActionCodes(a, b model.CostPerAction) bool {
	if len(a) != len(b) {
		return false
	}
	for code := range a {
		if _, ok := b[code]; !ok {
			return false
		}
	}
	return true
}

func (l *Ledger) configure(sender model.Address, op Configure, now time.Time) error {
	if sender != l.params.Advertiser {
		return ErrOnlyAdvertiser
	}
	if l.state != model.CampaignStateUninitialized {
		return ErrAlreadyConfigured
	}
	if len(op.RegularCostPerAction) == 0 {
		return ErrEmptyCostMap
	}
	if len(op.RegularCostPerAction) > MaxActionCodes {
		return ErrTooManyActionCodes
	}
	if !sameActionCodes(op.RegularCostPerAction, op.PremiumCostPerAction) {
		return ErrCostMapsMismatch
	}
	if op.PaymentMethod != model.PaymentMethodNative && op.PaymentMethod != model.PaymentMethodSecondaryToken {
		return ErrInvalidPaymentMethod
	}

	l.regularCosts = op.RegularCostPerAction.Clone()
	l.premiumCosts = op.PremiumCostPerAction.Clone()
	l.isPublic = op.IsPublicCampaign
	l.paymentMethod = op.PaymentMethod
	l.requiresApprovalForWithdrawal = op.RequiresApprovalForWithdrawal
	l.startTimestamp = now
	if op.ValidDays > 0 {
		l.validUntil = sql.NullTime{
			Valid: true,
			Time:  now.Add(time.Duration(op.ValidDays) * 24 * time.Hour),
		}
	}
	l.state = model.CampaignStateConfiguredActive

	l.emit(l.configuredEvent())
	return nil
}

func (l *Ledger) configuredEvent() notification.CampaignConfigured {
	codes := make([]model.ActionCode, 0, len(l.regularCosts))
	for code := range l.regularCosts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	costs := make([]notification.CostEntry, 0, len(codes))
	for _, code := range codes {
		costs = append(costs, notification.CostEntry{
			ActionCode: code,
			Regular:    l.regularCosts[code],
			Premium:    l.premiumCosts[code],
		})
	}

	var validUntil int64
	if l.validUntil.Valid {
		validUntil = l.validUntil.Time.Unix()
	}
	return notification.CampaignConfigured{
		CampaignID:       l.params.CampaignID,
		PaymentMethod:    l.paymentMethod,
		IsPublic:         l.isPublic,
		RequiresApproval: l.requiresApprovalForWithdrawal,
		ValidUntil:       validUntil,
		Costs:            costs,
	}
}

func (l *Ledger) fund(value model.Amount) error {
	if l.state != model.CampaignStateConfiguredActive {
		return ErrNotConfigured
	}
	if value == 0 {
		return ErrInvalidAmount
	}

	if l.paymentMethod == model.PaymentMethodNative {
		balance, ok := l.balance.Add(value)
		if !ok {
			return ErrAmountOverflow
		}
		l.balance = balance
		return nil
	}

	gasBuffer, ok := l.gasBuffer.Add(value)
	if !ok {
		return ErrAmountOverflow
	}
	l.gasBuffer = gasBuffer
	return nil
}

func (l *Ledger) tokenTransferNotification(sender model.Address, op TokenTransferNotification) error {
	if l.params.TokenWallet == "" || sender != l.params.TokenWallet {
		return ErrOnlyTokenWallet
	}
	if l.state != model.CampaignStateConfiguredActive {
		return ErrNotConfigured
	}
	if l.paymentMethod != model.PaymentMethodSecondaryToken {
		return ErrWrongPaymentMethod
	}
	if op.ForwardTag != l.params.ForwardTag {
		return ErrUnknownForwardTag
	}
	if op.Amount == 0 {
		return ErrInvalidAmount
	}

	balance, ok := l.balance.Add(op.Amount)
	if !ok {
		return ErrAmountOverflow
	}
	l.balance = balance
	return nil
}

// chargeTokenTransfer checks the native fee of an outbound token transfer is covered
func (l *Ledger) chargeTokenTransfer() (func(), error) {
	if l.paymentMethod != model.PaymentMethodSecondaryToken {
		return func() {}, nil
	}
	if l.gasBuffer < l.params.TokenTransferFee {
		return nil, ErrInsufficientGasBuffer
	}
	return func() {
		l.gasBuffer -= l.params.TokenTransferFee
	}, nil
}

func (l *Ledger) withdrawFunds(sender model.Address, op WithdrawFunds) (Result, error) {
	if sender != l.params.Advertiser {
		return Result{}, ErrOnlyAdvertiser
	}
	if l.state != model.CampaignStateConfiguredActive {
		return Result{}, ErrNotConfigured
	}
	if op.Amount == 0 {
		return Result{}, ErrInvalidAmount
	}
	if op.Amount > l.balance {
		return Result{}, ErrInsufficientBalance
	}
	charge, err := l.chargeTokenTransfer()
	if err != nil {
		return Result{}, err
	}

	charge()
	l.balance -= op.Amount

	l.emit(notification.FundsWithdrawn{
		CampaignID:       l.params.CampaignID,
		Advertiser:       l.params.Advertiser,
		Amount:           op.Amount,
		RemainingBalance: l.balance,
	})
	return Result{
		Payouts: []model.OutMessage{{To: sender, Amount: op.Amount, Method: l.paymentMethod}},
	}, nil
}

func (l *Ledger) createAffiliate(sender model.Address, now time.Time) (Result, error) {
	if l.state != model.CampaignStateConfiguredActive {
		return Result{}, ErrNotConfigured
	}
	if l.numAffiliates >= l.params.MaxAffiliates {
		return Result{}, ErrMaxAffiliatesReached
	}

	approval := model.ApprovalStatePending
	if l.isPublic {
		approval = model.ApprovalStateActive
	}

	id := l.nextAffiliateID
	l.affiliates[id] = &model.Affiliate{
		ID:                 id,
		CampaignID:         l.params.CampaignID,
		Owner:              sender,
		ApprovalState:      approval,
		ActionStats:        map[model.ActionCode]model.ActionStat{},
		PremiumActionStats: map[model.ActionCode]model.ActionStat{},
		CreatedAt:          now,
	}
	l.nextAffiliateID++
	l.numAffiliates++

	l.emit(notification.AffiliateCreated{
		CampaignID:    l.params.CampaignID,
		AffiliateID:   id,
		Owner:         sender,
		ApprovalState: approval,
	})
	return Result{AffiliateID: id}, nil
}

func (l *Ledger) approveAffiliate(sender model.Address, op ApproveAffiliate) error {
	if sender != l.params.Advertiser {
		return ErrOnlyAdvertiser
	}
	aff, ok := l.affiliates[op.AffiliateID]
	if !ok {
		return ErrAffiliateNotFound
	}
	if aff.ApprovalState == model.ApprovalStateActive {
		return ErrAffiliateAlreadyActive
	}

	aff.ApprovalState = model.ApprovalStateActive

	l.emit(notification.AffiliateApproved{
		CampaignID:  l.params.CampaignID,
		AffiliateID: op.AffiliateID,
	})
	return nil
}

func (l *Ledger) removeAffiliate(sender model.Address, op RemoveAffiliate) error {
	if sender != l.params.Advertiser {
		return ErrOnlyAdvertiser
	}
	aff, ok := l.affiliates[op.AffiliateID]
	if !ok {
		return ErrAffiliateNotFound
	}
	if aff.PendingApprovalEarnings > 0 || aff.WithdrawableEarnings > 0 {
		return ErrAffiliateHasEarnings
	}

	delete(l.affiliates, op.AffiliateID)
	delete(l.observed, op.AffiliateID)
	l.numAffiliates--
	if l.board.remove(op.AffiliateID) {
		l.rebuildLeaderboard()
	}

	l.emit(notification.AffiliateRemoved{
		CampaignID:  l.params.CampaignID,
		AffiliateID: op.AffiliateID,
		Owner:       aff.Owner,
	})
	return nil
}

// rebuildLeaderboard refills free slots from the remaining affiliates in observation order
func (l *Ledger) rebuildLeaderboard() {
	ids := make([]uint32, 0, len(l.observed))
	for id := range l.observed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return l.observed[ids[i]] < l.observed[ids[j]]
	})

	l.board = leaderboard{}
	for _, id := range ids {
		l.board.update(id, l.affiliates[id].TotalEarnings, l.observed[id])
	}
}

func (l *Ledger) reserve() model.Amount {
	if l.paymentMethod == model.PaymentMethodNative {
		return l.balance
	}
	return l.gasBuffer
}

// live is recomputed on every use, never cached
func (l *Ledger) live(now time.Time) bool {
	if l.state != model.CampaignStateConfiguredActive {
		return false
	}
	if l.validUntil.Valid && !now.Before(l.validUntil.Time) {
		return false
	}
	if l.paused {
		return false
	}
	return l.reserve() >= l.params.RequiredGasBuffer
}

func (l *Ledger) recordUserAction(
	affiliateID uint32, code model.ActionCode, premium bool, now time.Time,
) error {
	if !l.live(now) {
		return ErrCampaignNotLive
	}
	aff, ok := l.affiliates[affiliateID]
	if !ok {
		return ErrAffiliateNotFound
	}
	if aff.ApprovalState != model.ApprovalStateActive {
		return ErrAffiliateNotActive
	}

	costs := l.regularCosts
	if premium {
		costs = l.premiumCosts
	}
	commission, ok := costs[code]
	if !ok {
		return ErrActionNotConfigured
	}
	if commission > l.balance {
		return ErrInsufficientBalance
	}
	total, ok := aff.TotalEarnings.Add(commission)
	if !ok {
		return ErrAmountOverflow
	}

	l.balance -= commission
	if l.requiresApprovalForWithdrawal {
		aff.PendingApprovalEarnings += commission
	} else {
		aff.WithdrawableEarnings += commission
	}
	aff.TotalEarnings = total

	stats := aff.ActionStats
	if premium {
		stats = aff.PremiumActionStats
	}
	stat := stats[code]
	stat.Count++
	stat.LastTimestamp = now
	stats[code] = stat

	l.lastUserActionTimestamp = sql.NullTime{Valid: true, Time: now}
	l.numUserActions++

	if commission > 0 {
		l.observeCount++
		l.observed[affiliateID] = l.observeCount
		l.board.update(affiliateID, aff.TotalEarnings, l.observeCount)
	}

	l.emit(notification.UserActionRecorded{
		CampaignID:    l.params.CampaignID,
		AffiliateID:   affiliateID,
		ActionCode:    code,
		IsPremium:     premium,
		Commission:    commission,
		TotalEarnings: aff.TotalEarnings,
	})
	return nil
}

func (l *Ledger) releaseEarnings(sender model.Address, op ReleaseEarnings) error {
	if sender != l.params.Advertiser {
		return ErrOnlyAdvertiser
	}
	if l.state != model.CampaignStateConfiguredActive {
		return ErrNotConfigured
	}
	if !l.requiresApprovalForWithdrawal {
		return ErrReleaseNotRequired
	}
	if len(op.Amounts) == 0 {
		return ErrEmptyRelease
	}

	ids := make([]uint32, 0, len(op.Amounts))
	for id, amount := range op.Amounts {
		aff, ok := l.affiliates[id]
		if !ok {
			return ErrAffiliateNotFound
		}
		if amount == 0 {
			return ErrInvalidAmount
		}
		if amount > aff.PendingApprovalEarnings {
			return ErrReleaseExceedsPending
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		aff := l.affiliates[id]
		amount := op.Amounts[id]
		aff.PendingApprovalEarnings -= amount
		aff.WithdrawableEarnings += amount
	}
	for _, id := range ids {
		l.emit(notification.EarningsReleased{
			CampaignID:  l.params.CampaignID,
			AffiliateID: id,
			Amount:      op.Amounts[id],
		})
	}
	return nil
}

func (l *Ledger) affiliateWithdraw(sender model.Address, op AffiliateWithdraw) (Result, error) {
	aff, ok := l.affiliates[op.AffiliateID]
	if !ok {
		return Result{}, ErrAffiliateNotFound
	}
	if aff.Owner != sender {
		return Result{}, ErrOnlyAffiliateOwner
	}
	if aff.WithdrawableEarnings == 0 {
		return Result{}, ErrNothingToWithdraw
	}
	charge, err := l.chargeTokenTransfer()
	if err != nil {
		return Result{}, err
	}

	charge()
	amount := aff.WithdrawableEarnings
	aff.WithdrawableEarnings = 0
	aff.WithdrawnEarnings += amount

	l.emit(notification.AffiliateWithdrew{
		CampaignID:  l.params.CampaignID,
		AffiliateID: op.AffiliateID,
		Owner:       aff.Owner,
		Amount:      amount,
	})
	return Result{
		AffiliateID: op.AffiliateID,
		Payouts:     []model.OutMessage{{To: aff.Owner, Amount: amount, Method: l.paymentMethod}},
	}, nil
}

func (l *Ledger) adminCompensate(sender model.Address, op AdminCompensate) error {
	if sender != l.params.Admin {
		return ErrOnlyAdmin
	}
	aff, ok := l.affiliates[op.AffiliateID]
	if !ok {
		return ErrAffiliateNotFound
	}
	if op.Amount == 0 {
		return ErrInvalidAmount
	}
	if op.Amount > aff.WithdrawnEarnings {
		return ErrCompensationExceedsWithdrawn
	}

	aff.WithdrawnEarnings -= op.Amount
	aff.WithdrawableEarnings += op.Amount
	return nil
}

func (l *Ledger) setPaused(sender model.Address, paused bool) error {
	if sender != l.params.Admin {
		return ErrOnlyAdmin
	}
	if l.paused == paused {
		return nil
	}
	l.paused = paused

	l.emit(notification.CampaignPaused{
		CampaignID: l.params.CampaignID,
		Paused:     paused,
	})
	return nil
}
