package ledger

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/notification"
)

const (
	testAdvertiser  model.Address = "EQ-advertiser"
	testVerifier    model.Address = "EQ-verifier"
	testAdmin       model.Address = "EQ-admin"
	testTokenWallet model.Address = "EQ-token-wallet"
	testAffiliate1  model.Address = "EQ-affiliate-1"
	testAffiliate2  model.Address = "EQ-affiliate-2"
)

var testNow = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func ton(s string) model.Amount {
	return model.MustParseAmount(s, model.NativeDecimals)
}

type recordingEmitter struct {
	events []notification.Event
}

func (e *recordingEmitter) Emit(evt notification.Event) {
	e.events = append(e.events, evt)
}

type ledgerTest struct {
	ledger  *Ledger
	emitter *recordingEmitter
	now     time.Time
}

func newLedgerTest() *ledgerTest {
	params := DefaultParams()
	params.CampaignID = 11
	params.Advertiser = testAdvertiser
	params.Verifier = testVerifier
	params.Admin = testAdmin
	params.TokenWallet = testTokenWallet
	params.MaxAffiliates = 100

	lt := &ledgerTest{
		emitter: &recordingEmitter{},
		now:     testNow,
	}
	lt.ledger = New(params,
		WithEmitter(lt.emitter),
		WithNowFunc(func() time.Time { return lt.now }),
	)
	return lt
}

func (lt *ledgerTest) exec(sender model.Address, op Operation) (Result, error) {
	return lt.ledger.Execute(context.Background(), Message{Sender: sender, Op: op})
}

func (lt *ledgerTest) execValue(sender model.Address, value model.Amount, op Operation) error {
	_, err := lt.ledger.Execute(context.Background(), Message{Sender: sender, Value: value, Op: op})
	return err
}

func defaultConfigure() Configure {
	return Configure{
		RegularCostPerAction: model.CostPerAction{0: ton("0.1"), 200: ton("1")},
		PremiumCostPerAction: model.CostPerAction{0: ton("0.2"), 200: ton("2")},
		IsPublicCampaign:     true,
		PaymentMethod:        model.PaymentMethodNative,
	}
}

func (lt *ledgerTest) configure(t *testing.T, op Configure) {
	_, err := lt.exec(testAdvertiser, op)
	require.Equal(t, nil, err)
}

func (lt *ledgerTest) fund(t *testing.T, amount model.Amount) {
	require.Equal(t, nil, lt.execValue(testAdvertiser, amount, Fund{}))
}

func (lt *ledgerTest) createAffiliate(t *testing.T, owner model.Address) uint32 {
	result, err := lt.exec(owner, CreateAffiliate{})
	require.Equal(t, nil, err)
	return result.AffiliateID
}

func (lt *ledgerTest) verifiedAction(affiliateID uint32, code model.ActionCode) error {
	_, err := lt.exec(testVerifier, UserActionVerified{AffiliateID: affiliateID, ActionCode: code})
	return err
}

func (lt *ledgerTest) affiliate(t *testing.T, id uint32) model.Affiliate {
	aff, ok := lt.ledger.Affiliate(id)
	require.Equal(t, true, ok)
	return aff
}

// ================================================
// Configure
// ================================================

func TestLedger__Configure__Write_Once(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())

	second := defaultConfigure()
	second.IsPublicCampaign = false
	second.PaymentMethod = model.PaymentMethodSecondaryToken

	_, err := lt.exec(testAdvertiser, second)
	assert.Equal(t, ErrAlreadyConfigured, err)

	snapshot := lt.ledger.Snapshot(testNow)
	assert.Equal(t, true, snapshot.IsPublicCampaign)
	assert.Equal(t, model.PaymentMethodNative, snapshot.PaymentMethod)
	assert.Equal(t, model.CampaignStateConfiguredActive, snapshot.State)
}

func TestLedger__Configure__Write_Once__Random_Arguments(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		lt := newLedgerTest()
		lt.configure(t, defaultConfigure())

		code := model.ActionCode(r.Intn(1000))
		_, err := lt.exec(testAdvertiser, Configure{
			RegularCostPerAction:          model.CostPerAction{code: model.Amount(r.Int63())},
			PremiumCostPerAction:          model.CostPerAction{code: model.Amount(r.Int63())},
			IsPublicCampaign:              r.Intn(2) == 0,
			PaymentMethod:                 model.PaymentMethod(r.Intn(2)),
			ValidDays:                     uint32(r.Intn(30)),
			RequiresApprovalForWithdrawal: r.Intn(2) == 0,
		})
		assert.Equal(t, ErrAlreadyConfigured, err)
	}
}

func TestLedger__Configure__Only_Advertiser(t *testing.T) {
	lt := newLedgerTest()
	_, err := lt.exec(testAffiliate1, defaultConfigure())
	assert.Equal(t, ErrOnlyAdvertiser, err)
	assert.Equal(t, model.CampaignStateUninitialized, lt.ledger.Snapshot(testNow).State)
	assert.Equal(t, 0, len(lt.emitter.events))
}

func TestLedger__Configure__Cost_Maps_Mismatch(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.PremiumCostPerAction = model.CostPerAction{0: ton("0.2"), 201: ton("2")}

	_, err := lt.exec(testAdvertiser, op)
	assert.Equal(t, ErrCostMapsMismatch, err)

	op.PremiumCostPerAction = model.CostPerAction{0: ton("0.2")}
	_, err = lt.exec(testAdvertiser, op)
	assert.Equal(t, ErrCostMapsMismatch, err)

	assert.Equal(t, model.CampaignStateUninitialized, lt.ledger.Snapshot(testNow).State)
}

func costTable(n int) (model.CostPerAction, model.CostPerAction) {
	regular := model.CostPerAction{}
	premium := model.CostPerAction{}
	for i := 0; i < n; i++ {
		regular[model.ActionCode(i)] = model.Amount(i + 1)
		premium[model.ActionCode(i)] = model.Amount(2 * (i + 1))
	}
	return regular, premium
}

func TestLedger__Configure__Too_Many_Action_Codes(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.RegularCostPerAction, op.PremiumCostPerAction = costTable(MaxActionCodes + 1)

	_, err := lt.exec(testAdvertiser, op)
	assert.Equal(t, ErrTooManyActionCodes, err)
	assert.Equal(t, model.CampaignStateUninitialized, lt.ledger.Snapshot(testNow).State)
	assert.Equal(t, 0, len(lt.emitter.events))

	msg, ok := Describe(ErrTooManyActionCodes.Code)
	assert.Equal(t, true, ok)
	assert.Equal(t, "too many action codes configured", msg)
}

func TestLedger__Configure__Max_Action_Codes__Event_Is_Decodable(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.RegularCostPerAction, op.PremiumCostPerAction = costTable(MaxActionCodes)
	lt.configure(t, op)

	require.Equal(t, 1, len(lt.emitter.events))
	evt, err := notification.Decode(notification.Encode(lt.emitter.events[0]))
	assert.Equal(t, nil, err)

	configured, ok := evt.(notification.CampaignConfigured)
	require.Equal(t, true, ok)
	assert.Equal(t, MaxActionCodes, len(configured.Costs))
	assert.Equal(t, notification.CostEntry{
		ActionCode: MaxActionCodes - 1,
		Regular:    MaxActionCodes,
		Premium:    2 * MaxActionCodes,
	}, configured.Costs[MaxActionCodes-1])
}

func TestLedger__Configure__Valid_Until_And_Event(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.ValidDays = 3
	lt.configure(t, op)

	snapshot := lt.ledger.Snapshot(testNow)
	assert.Equal(t, true, snapshot.ValidUntil.Valid)
	assert.Equal(t, testNow.Add(72*time.Hour), snapshot.ValidUntil.Time)
	assert.Equal(t, testNow, snapshot.CampaignStartTimestamp.Time)

	assert.Equal(t, []notification.Event{
		notification.CampaignConfigured{
			CampaignID:    11,
			PaymentMethod: model.PaymentMethodNative,
			IsPublic:      true,
			ValidUntil:    testNow.Add(72 * time.Hour).Unix(),
			Costs: []notification.CostEntry{
				{ActionCode: 0, Regular: ton("0.1"), Premium: ton("0.2")},
				{ActionCode: 200, Regular: ton("1"), Premium: ton("2")},
			},
		},
	}, lt.emitter.events)
}

// ================================================
// Funding
// ================================================

func TestLedger__Fund__Native_And_Token(t *testing.T) {
	lt := newLedgerTest()
	err := lt.execValue(testAdvertiser, ton("1"), Fund{})
	assert.Equal(t, ErrNotConfigured, err)

	op := defaultConfigure()
	op.PaymentMethod = model.PaymentMethodSecondaryToken
	lt.configure(t, op)

	lt.fund(t, ton("2"))

	_, err = lt.exec(testTokenWallet, TokenTransferNotification{
		Amount:     500_000,
		From:       testAdvertiser,
		ForwardTag: "campaign-fund",
	})
	assert.Equal(t, nil, err)

	snapshot := lt.ledger.Snapshot(testNow)
	assert.Equal(t, model.Amount(500_000), snapshot.Balance)
	assert.Equal(t, ton("2"), snapshot.GasBuffer)
	assert.Equal(t, true, snapshot.Live)
}

func TestLedger__Token_Transfer__Rejections(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.PaymentMethod = model.PaymentMethodSecondaryToken
	lt.configure(t, op)

	_, err := lt.exec(testAdvertiser, TokenTransferNotification{Amount: 10, ForwardTag: "campaign-fund"})
	assert.Equal(t, ErrOnlyTokenWallet, err)

	_, err = lt.exec(testTokenWallet, TokenTransferNotification{Amount: 10, ForwardTag: "other"})
	assert.Equal(t, ErrUnknownForwardTag, err)

	assert.Equal(t, model.Amount(0), lt.ledger.Snapshot(testNow).Balance)
}

func TestLedger__Withdraw_Funds(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("5"))

	_, err := lt.exec(testAffiliate1, WithdrawFunds{Amount: ton("1")})
	assert.Equal(t, ErrOnlyAdvertiser, err)

	_, err = lt.exec(testAdvertiser, WithdrawFunds{Amount: ton("6")})
	assert.Equal(t, ErrInsufficientBalance, err)

	result, err := lt.exec(testAdvertiser, WithdrawFunds{Amount: ton("2")})
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.OutMessage{
		{To: testAdvertiser, Amount: ton("2"), Method: model.PaymentMethodNative},
	}, result.Payouts)
	assert.Equal(t, ton("3"), lt.ledger.Snapshot(testNow).Balance)

	assert.Equal(t, notification.FundsWithdrawn{
		CampaignID:       11,
		Advertiser:       testAdvertiser,
		Amount:           ton("2"),
		RemainingBalance: ton("3"),
	}, lt.emitter.events[len(lt.emitter.events)-1])
}

// ================================================
// Affiliates
// ================================================

func TestLedger__Create_Affiliate__Private_Campaign_Needs_Approval(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.IsPublicCampaign = false
	lt.configure(t, op)
	lt.fund(t, ton("10"))

	id := lt.createAffiliate(t, testAffiliate1)
	assert.Equal(t, uint32(0), id)
	assert.Equal(t, model.ApprovalStatePending, lt.affiliate(t, id).ApprovalState)

	assert.Equal(t, ErrAffiliateNotActive, lt.verifiedAction(id, 0))

	_, err := lt.exec(testAffiliate1, ApproveAffiliate{AffiliateID: id})
	assert.Equal(t, ErrOnlyAdvertiser, err)

	_, err = lt.exec(testAdvertiser, ApproveAffiliate{AffiliateID: id})
	assert.Equal(t, nil, err)

	_, err = lt.exec(testAdvertiser, ApproveAffiliate{AffiliateID: id})
	assert.Equal(t, ErrAffiliateAlreadyActive, err)

	_, err = lt.exec(testAdvertiser, ApproveAffiliate{AffiliateID: 9})
	assert.Equal(t, ErrAffiliateNotFound, err)

	assert.Equal(t, nil, lt.verifiedAction(id, 0))
}

func TestLedger__Create_Affiliate__Max_Reached(t *testing.T) {
	lt := newLedgerTest()
	lt.ledger.params.MaxAffiliates = 2
	lt.configure(t, defaultConfigure())

	lt.createAffiliate(t, testAffiliate1)
	lt.createAffiliate(t, testAffiliate2)

	_, err := lt.exec(testAffiliate1, CreateAffiliate{})
	assert.Equal(t, ErrMaxAffiliatesReached, err)
	assert.Equal(t, uint32(2), lt.ledger.Snapshot(testNow).NumAffiliates)
}

func TestLedger__Remove_Affiliate(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))

	id := lt.createAffiliate(t, testAffiliate1)
	idle := lt.createAffiliate(t, testAffiliate2)
	require.Equal(t, nil, lt.verifiedAction(id, 0))

	_, err := lt.exec(testAdvertiser, RemoveAffiliate{AffiliateID: id})
	assert.Equal(t, ErrAffiliateHasEarnings, err)

	_, err = lt.exec(testAdvertiser, RemoveAffiliate{AffiliateID: idle})
	assert.Equal(t, nil, err)

	_, ok := lt.ledger.Affiliate(idle)
	assert.Equal(t, false, ok)
	assert.Equal(t, uint32(1), lt.ledger.Snapshot(testNow).NumAffiliates)

	_, err = lt.exec(testAffiliate1, AffiliateWithdraw{AffiliateID: id})
	assert.Equal(t, nil, err)

	_, err = lt.exec(testAdvertiser, RemoveAffiliate{AffiliateID: id})
	assert.Equal(t, nil, err)

	snapshot := lt.ledger.Snapshot(testNow)
	assert.Equal(t, uint32(0), snapshot.NumAffiliates)
	assert.Equal(t, []model.LeaderboardEntry{}, snapshot.TopAffiliates)

	// ids are never reused
	assert.Equal(t, uint32(2), lt.createAffiliate(t, testAffiliate1))
}

// ================================================
// User actions
// ================================================

func TestLedger__Role_Separation(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))
	id := lt.createAffiliate(t, testAffiliate1)

	for code := model.ActionCode(200); code < 260; code++ {
		_, err := lt.exec(testVerifier, UserActionVerified{AffiliateID: id, ActionCode: code})
		assert.Equal(t, ErrVerifierActionOutOfRange, err)
	}
	for code := model.ActionCode(0); code < 200; code++ {
		_, err := lt.exec(testAdvertiser, UserActionByAdvertiser{AffiliateID: id, ActionCode: code})
		assert.Equal(t, ErrAdvertiserActionOutOfRange, err)
	}

	_, err := lt.exec(testAdvertiser, UserActionVerified{AffiliateID: id, ActionCode: 0})
	assert.Equal(t, ErrOnlyVerifier, err)

	_, err = lt.exec(testVerifier, UserActionByAdvertiser{AffiliateID: id, ActionCode: 200})
	assert.Equal(t, ErrOnlyAdvertiser, err)

	assert.Equal(t, model.Amount(0), lt.affiliate(t, id).TotalEarnings)

	_, err = lt.exec(testAdvertiser, UserActionByAdvertiser{AffiliateID: id, ActionCode: 200, IsPremiumUser: true})
	assert.Equal(t, nil, err)
	assert.Equal(t, ton("2"), lt.affiliate(t, id).TotalEarnings)
}

func TestLedger__User_Action__Not_Live(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.ValidDays = 1
	lt.configure(t, op)
	id := lt.createAffiliate(t, testAffiliate1)

	// balance below required gas buffer
	lt.fund(t, ton("0.5"))
	assert.Equal(t, ErrCampaignNotLive, lt.verifiedAction(id, 0))

	lt.fund(t, ton("5"))
	assert.Equal(t, nil, lt.verifiedAction(id, 0))

	_, err := lt.exec(testAdmin, AdminPause{})
	assert.Equal(t, nil, err)
	assert.Equal(t, false, lt.ledger.Snapshot(lt.now).Live)
	assert.Equal(t, ErrCampaignNotLive, lt.verifiedAction(id, 0))

	_, err = lt.exec(testAdmin, AdminUnpause{})
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, lt.verifiedAction(id, 0))

	lt.now = testNow.Add(24 * time.Hour)
	assert.Equal(t, ErrCampaignNotLive, lt.verifiedAction(id, 0))
	assert.Equal(t, false, lt.ledger.Snapshot(lt.now).Live)
}

func TestLedger__User_Action__Action_Not_Configured_And_Insufficient_Balance(t *testing.T) {
	lt := newLedgerTest()
	lt.ledger.params.RequiredGasBuffer = 0
	lt.configure(t, defaultConfigure())
	id := lt.createAffiliate(t, testAffiliate1)
	lt.fund(t, ton("0.15"))

	assert.Equal(t, ErrActionNotConfigured, lt.verifiedAction(id, 5))
	assert.Equal(t, nil, lt.verifiedAction(id, 0))
	assert.Equal(t, ErrInsufficientBalance, lt.verifiedAction(id, 0))

	assert.Equal(t, ton("0.05"), lt.ledger.Snapshot(testNow).Balance)
	assert.Equal(t, ton("0.1"), lt.affiliate(t, id).TotalEarnings)
}

func TestLedger__Replace_Verifier(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))
	id := lt.createAffiliate(t, testAffiliate1)

	_, err := lt.exec(testAdvertiser, AdminReplaceVerifier{Verifier: "EQ-new-bot"})
	assert.Equal(t, ErrOnlyAdmin, err)

	_, err = lt.exec(testAdmin, AdminReplaceVerifier{Verifier: "EQ-new-bot"})
	assert.Equal(t, nil, err)

	assert.Equal(t, ErrOnlyVerifier, lt.verifiedAction(id, 0))

	_, err = lt.exec("EQ-new-bot", UserActionVerified{AffiliateID: id, ActionCode: 0})
	assert.Equal(t, nil, err)
}

// ================================================
// Scenarios
// ================================================

func TestLedger__Scenario__Public_Non_Gated(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, Configure{
		RegularCostPerAction: model.CostPerAction{0: ton("0.1")},
		PremiumCostPerAction: model.CostPerAction{0: ton("0.1")},
		IsPublicCampaign:     true,
		PaymentMethod:        model.PaymentMethodNative,
	})
	lt.fund(t, ton("10"))

	id := lt.createAffiliate(t, testAffiliate1)
	assert.Equal(t, model.ApprovalStateActive, lt.affiliate(t, id).ApprovalState)

	assert.Equal(t, nil, lt.verifiedAction(id, 0))

	aff := lt.affiliate(t, id)
	assert.Equal(t, ton("0.1"), aff.WithdrawableEarnings)
	assert.Equal(t, ton("0.1"), aff.TotalEarnings)
	assert.Equal(t, model.Amount(0), aff.PendingApprovalEarnings)
	assert.Equal(t, model.ActionStat{Count: 1, LastTimestamp: testNow}, aff.ActionStats[0])

	snapshot := lt.ledger.Snapshot(testNow)
	assert.Equal(t, uint64(1), snapshot.NumUserActions)
	assert.Equal(t, ton("9.9"), snapshot.Balance)
	assert.Equal(t, testNow, snapshot.LastUserActionTimestamp.Time)
	assert.Equal(t, []model.LeaderboardEntry{
		{AffiliateID: id, TotalEarnings: ton("0.1")},
	}, snapshot.TopAffiliates)
}

func TestLedger__Scenario__Gated_Release(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, Configure{
		RegularCostPerAction:          model.CostPerAction{0: ton("0.1")},
		PremiumCostPerAction:          model.CostPerAction{0: ton("0.1")},
		IsPublicCampaign:              true,
		PaymentMethod:                 model.PaymentMethodNative,
		RequiresApprovalForWithdrawal: true,
	})
	lt.fund(t, ton("10"))

	id := lt.createAffiliate(t, testAffiliate1)
	assert.Equal(t, nil, lt.verifiedAction(id, 0))

	aff := lt.affiliate(t, id)
	assert.Equal(t, ton("0.1"), aff.PendingApprovalEarnings)
	assert.Equal(t, model.Amount(0), aff.WithdrawableEarnings)

	_, err := lt.exec(testAdvertiser, ReleaseEarnings{
		Amounts: map[uint32]model.Amount{id: ton("0.05")},
	})
	assert.Equal(t, nil, err)

	aff = lt.affiliate(t, id)
	assert.Equal(t, ton("0.05"), aff.PendingApprovalEarnings)
	assert.Equal(t, ton("0.05"), aff.WithdrawableEarnings)
	assert.Equal(t, ton("0.1"), aff.TotalEarnings)
}

func TestLedger__Scenario__Withdraw_Nothing(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))
	id := lt.createAffiliate(t, testAffiliate1)

	before := lt.ledger.Snapshot(testNow)

	_, err := lt.exec(testAffiliate1, AffiliateWithdraw{AffiliateID: id})
	assert.Equal(t, ErrNothingToWithdraw, err)

	var ledgerErr *Error
	assert.Equal(t, true, errors.As(err, &ledgerErr))
	assert.Equal(t, ErrorClassAccounting, ledgerErr.Class)

	assert.Equal(t, before, lt.ledger.Snapshot(testNow))
	assert.Equal(t, model.Amount(0), lt.affiliate(t, id).WithdrawnEarnings)
}

// ================================================
// Release, withdraw and compensation
// ================================================

func TestLedger__Release__Exceeds_Pending_Changes_Nothing(t *testing.T) {
	lt := newLedgerTest()
	op := defaultConfigure()
	op.RequiresApprovalForWithdrawal = true
	lt.configure(t, op)
	lt.fund(t, ton("10"))

	a := lt.createAffiliate(t, testAffiliate1)
	b := lt.createAffiliate(t, testAffiliate2)
	require.Equal(t, nil, lt.verifiedAction(a, 0))
	require.Equal(t, nil, lt.verifiedAction(b, 0))

	eventsBefore := len(lt.emitter.events)

	_, err := lt.exec(testAdvertiser, ReleaseEarnings{
		Amounts: map[uint32]model.Amount{a: ton("0.1"), b: ton("0.2")},
	})
	assert.Equal(t, ErrReleaseExceedsPending, err)

	_, err = lt.exec(testAdvertiser, ReleaseEarnings{
		Amounts: map[uint32]model.Amount{a: ton("0.1"), 77: ton("0.01")},
	})
	assert.Equal(t, ErrAffiliateNotFound, err)

	_, err = lt.exec(testAdvertiser, ReleaseEarnings{})
	assert.Equal(t, ErrEmptyRelease, err)

	assert.Equal(t, ton("0.1"), lt.affiliate(t, a).PendingApprovalEarnings)
	assert.Equal(t, ton("0.1"), lt.affiliate(t, b).PendingApprovalEarnings)
	assert.Equal(t, model.Amount(0), lt.affiliate(t, a).WithdrawableEarnings)
	assert.Equal(t, eventsBefore, len(lt.emitter.events))

	_, err = lt.exec(testAdvertiser, ReleaseEarnings{
		Amounts: map[uint32]model.Amount{b: ton("0.1"), a: ton("0.04")},
	})
	assert.Equal(t, nil, err)
	assert.Equal(t, []notification.Event{
		notification.EarningsReleased{CampaignID: 11, AffiliateID: a, Amount: ton("0.04")},
		notification.EarningsReleased{CampaignID: 11, AffiliateID: b, Amount: ton("0.1")},
	}, lt.emitter.events[eventsBefore:])
}

func TestLedger__Release__Not_Gated(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())

	_, err := lt.exec(testAdvertiser, ReleaseEarnings{Amounts: map[uint32]model.Amount{0: 1}})
	assert.Equal(t, ErrReleaseNotRequired, err)
}

func TestLedger__Affiliate_Withdraw__Token_Payout_Charges_Gas_Buffer(t *testing.T) {
	lt := newLedgerTest()
	lt.ledger.params.RequiredGasBuffer = ton("0.1")
	op := defaultConfigure()
	op.PaymentMethod = model.PaymentMethodSecondaryToken
	op.RegularCostPerAction = model.CostPerAction{0: 300_000}
	op.PremiumCostPerAction = model.CostPerAction{0: 600_000}
	lt.configure(t, op)

	lt.fund(t, ton("0.12"))
	_, err := lt.exec(testTokenWallet, TokenTransferNotification{Amount: 1_000_000, ForwardTag: "campaign-fund"})
	require.Equal(t, nil, err)

	id := lt.createAffiliate(t, testAffiliate1)
	require.Equal(t, nil, lt.verifiedAction(id, 0))

	_, err = lt.exec(testAffiliate2, AffiliateWithdraw{AffiliateID: id})
	assert.Equal(t, ErrOnlyAffiliateOwner, err)

	result, err := lt.exec(testAffiliate1, AffiliateWithdraw{AffiliateID: id})
	assert.Equal(t, nil, err)
	assert.Equal(t, []model.OutMessage{
		{To: testAffiliate1, Amount: 300_000, Method: model.PaymentMethodSecondaryToken},
	}, result.Payouts)

	snapshot := lt.ledger.Snapshot(testNow)
	assert.Equal(t, ton("0.07"), snapshot.GasBuffer)
	assert.Equal(t, model.Amount(700_000), snapshot.Balance)
	assert.Equal(t, false, snapshot.Live)

	assert.Equal(t, ErrCampaignNotLive, lt.verifiedAction(id, 0))
}

func TestLedger__Affiliate_Withdraw__Insufficient_Gas_Buffer(t *testing.T) {
	lt := newLedgerTest()
	lt.ledger.params.RequiredGasBuffer = 0
	lt.ledger.params.TokenTransferFee = ton("0.05")
	op := defaultConfigure()
	op.PaymentMethod = model.PaymentMethodSecondaryToken
	lt.configure(t, op)

	_, err := lt.exec(testTokenWallet, TokenTransferNotification{Amount: ton("1"), ForwardTag: "campaign-fund"})
	require.Equal(t, nil, err)

	id := lt.createAffiliate(t, testAffiliate1)
	require.Equal(t, nil, lt.verifiedAction(id, 0))

	_, err = lt.exec(testAffiliate1, AffiliateWithdraw{AffiliateID: id})
	assert.Equal(t, ErrInsufficientGasBuffer, err)
	assert.Equal(t, ton("0.1"), lt.affiliate(t, id).WithdrawableEarnings)
}

func TestLedger__Admin_Compensate(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))
	id := lt.createAffiliate(t, testAffiliate1)
	require.Equal(t, nil, lt.verifiedAction(id, 0))

	_, err := lt.exec(testAdmin, AdminCompensate{AffiliateID: id, Amount: ton("0.1")})
	assert.Equal(t, ErrCompensationExceedsWithdrawn, err)

	_, err = lt.exec(testAffiliate1, AffiliateWithdraw{AffiliateID: id})
	require.Equal(t, nil, err)

	_, err = lt.exec(testAdvertiser, AdminCompensate{AffiliateID: id, Amount: ton("0.1")})
	assert.Equal(t, ErrOnlyAdmin, err)

	_, err = lt.exec(testAdmin, AdminCompensate{AffiliateID: id, Amount: ton("0.1")})
	assert.Equal(t, nil, err)

	aff := lt.affiliate(t, id)
	assert.Equal(t, ton("0.1"), aff.WithdrawableEarnings)
	assert.Equal(t, model.Amount(0), aff.WithdrawnEarnings)
	assert.Equal(t, ton("0.1"), aff.TotalEarnings)
	assert.Equal(t, true, aff.Conserved())
}

// ================================================
// Properties
// ================================================

func TestLedger__Conservation__Random_Sequences(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	lt := newLedgerTest()
	op := defaultConfigure()
	op.RequiresApprovalForWithdrawal = true
	lt.configure(t, op)
	lt.fund(t, ton("100000"))

	owners := []model.Address{"EQ-a", "EQ-b", "EQ-c", "EQ-d"}
	for _, owner := range owners {
		lt.createAffiliate(t, owner)
	}

	for i := 0; i < 2000; i++ {
		id := uint32(r.Intn(len(owners)))
		switch r.Intn(3) {
		case 0:
			_, _ = lt.exec(testVerifier, UserActionVerified{
				AffiliateID:   id,
				ActionCode:    0,
				IsPremiumUser: r.Intn(2) == 0,
			})
		case 1:
			pending := lt.affiliate(t, id).PendingApprovalEarnings
			_, _ = lt.exec(testAdvertiser, ReleaseEarnings{
				Amounts: map[uint32]model.Amount{id: model.Amount(r.Int63n(int64(pending) + 2))},
			})
		default:
			_, _ = lt.exec(owners[id], AffiliateWithdraw{AffiliateID: id})
		}

		for _, aff := range lt.ledger.AffiliatesRange(0, 10) {
			require.Equal(t, true, aff.Conserved(), "affiliate %d at step %d", aff.ID, i)
		}
	}
}

type bruteForceEntry struct {
	id       uint32
	total    model.Amount
	observed int
}

func TestLedger__Leaderboard__Matches_Brute_Force(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	lt := newLedgerTest()
	lt.configure(t, Configure{
		RegularCostPerAction: model.CostPerAction{0: 1, 1: 3, 2: 0},
		PremiumCostPerAction: model.CostPerAction{0: 2, 1: 5, 2: 0},
		IsPublicCampaign:     true,
	})
	lt.fund(t, ton("100"))

	const numAffiliates = 8
	for i := 0; i < numAffiliates; i++ {
		lt.createAffiliate(t, testAffiliate1)
	}

	earned := map[uint32]*bruteForceEntry{}
	for i := 0; i < 3000; i++ {
		id := uint32(r.Intn(numAffiliates))
		code := model.ActionCode(r.Intn(3))
		premium := r.Intn(2) == 0

		_, err := lt.exec(testVerifier, UserActionVerified{AffiliateID: id, ActionCode: code, IsPremiumUser: premium})
		require.Equal(t, nil, err)

		total := lt.affiliate(t, id).TotalEarnings
		e, ok := earned[id]
		if !ok && total > 0 {
			e = &bruteForceEntry{id: id}
			earned[id] = e
		}
		if e != nil && e.total != total {
			e.total = total
			e.observed = i
		}

		entries := make([]bruteForceEntry, 0, len(earned))
		for _, e := range earned {
			entries = append(entries, *e)
		}
		sort.Slice(entries, func(a, b int) bool {
			if entries[a].total != entries[b].total {
				return entries[a].total > entries[b].total
			}
			return entries[a].observed < entries[b].observed
		})
		if len(entries) > LeaderboardCapacity {
			entries = entries[:LeaderboardCapacity]
		}

		expected := make([]model.LeaderboardEntry, 0, len(entries))
		for _, e := range entries {
			expected = append(expected, model.LeaderboardEntry{AffiliateID: e.id, TotalEarnings: e.total})
		}
		require.Equal(t, expected, lt.ledger.Snapshot(testNow).TopAffiliates, "step %d", i)
	}
}

func TestLedger__Leaderboard__Tie_First_Observed_Wins(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))

	for i := 0; i < 4; i++ {
		id := lt.createAffiliate(t, testAffiliate1)
		require.Equal(t, nil, lt.verifiedAction(id, 0))
	}

	assert.Equal(t, []model.LeaderboardEntry{
		{AffiliateID: 0, TotalEarnings: ton("0.1")},
		{AffiliateID: 1, TotalEarnings: ton("0.1")},
		{AffiliateID: 2, TotalEarnings: ton("0.1")},
	}, lt.ledger.Snapshot(testNow).TopAffiliates)

	// 3 overtakes everyone
	require.Equal(t, nil, lt.verifiedAction(3, 0))
	assert.Equal(t, []model.LeaderboardEntry{
		{AffiliateID: 3, TotalEarnings: ton("0.2")},
		{AffiliateID: 0, TotalEarnings: ton("0.1")},
		{AffiliateID: 1, TotalEarnings: ton("0.1")},
	}, lt.ledger.Snapshot(testNow).TopAffiliates)
}

func TestLedger__Leaderboard__Refilled_After_Removal(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))

	for i := 0; i < 4; i++ {
		id := lt.createAffiliate(t, model.Address("EQ-owner-"+string(rune('a'+i))))
		for j := 0; j <= 3-i; j++ {
			require.Equal(t, nil, lt.verifiedAction(id, 0))
		}
	}

	_, err := lt.exec("EQ-owner-a", AffiliateWithdraw{AffiliateID: 0})
	require.Equal(t, nil, err)
	_, err = lt.exec(testAdvertiser, RemoveAffiliate{AffiliateID: 0})
	require.Equal(t, nil, err)

	assert.Equal(t, []model.LeaderboardEntry{
		{AffiliateID: 1, TotalEarnings: ton("0.3")},
		{AffiliateID: 2, TotalEarnings: ton("0.2")},
		{AffiliateID: 3, TotalEarnings: ton("0.1")},
	}, lt.ledger.Snapshot(testNow).TopAffiliates)
}

// ================================================
// Read model
// ================================================

func TestLedger__Affiliates_Range(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	for i := 0; i < 5; i++ {
		lt.createAffiliate(t, testAffiliate1)
	}
	_, err := lt.exec(testAdvertiser, RemoveAffiliate{AffiliateID: 2})
	require.Equal(t, nil, err)

	result := lt.ledger.AffiliatesRange(1, 4)
	ids := make([]uint32, 0, len(result))
	for _, aff := range result {
		ids = append(ids, aff.ID)
	}
	assert.Equal(t, []uint32{1, 3}, ids)

	assert.Equal(t, 0, len(lt.ledger.AffiliatesRange(4, 4)))
	assert.Equal(t, 0, len(lt.ledger.AffiliatesRange(10, 20)))
}

func TestLedger__Snapshot_Is_A_Copy(t *testing.T) {
	lt := newLedgerTest()
	lt.configure(t, defaultConfigure())
	lt.fund(t, ton("10"))
	id := lt.createAffiliate(t, testAffiliate1)
	require.Equal(t, nil, lt.verifiedAction(id, 0))

	snapshot := lt.ledger.Snapshot(testNow)
	snapshot.RegularCostPerAction[0] = 1

	aff := lt.affiliate(t, id)
	aff.ActionStats[0] = model.ActionStat{}

	assert.Equal(t, ton("0.1"), lt.ledger.Snapshot(testNow).RegularCostPerAction[0])
	assert.Equal(t, uint64(1), lt.affiliate(t, id).ActionStats[0].Count)
}

func TestLedger__Execute__Canceled_Context(t *testing.T) {
	lt := newLedgerTest()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lt.ledger.Execute(ctx, Message{Sender: testAdvertiser, Op: defaultConfigure()})
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, model.CampaignStateUninitialized, lt.ledger.Snapshot(testNow).State)
}
