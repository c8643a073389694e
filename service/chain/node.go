package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/metrics"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/notification"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/util"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/service/ledger"
)

// ErrCampaignNotFound ...
var ErrCampaignNotFound = errors.New("campaign not found")

// ErrAffiliateNotFound ...
var ErrAffiliateNotFound = errors.New("affiliate not found")

// ErrQueueFull ...
var ErrQueueFull = errors.New("submission queue is full")

// ErrJournalBehind is returned once an executed message could not be persisted.
// The in-memory ledgers are ahead of the journal until the node restarts and replays it.
var ErrJournalBehind = errors.New("node state is ahead of its journal, restart required")

// ExitCodeInternal is recorded when a message fails outside the ledger error catalog
const ExitCodeInternal uint32 = 1

// Config of the campaigns deployed by this node
type Config struct {
	FactoryAddress model.Address
	Admin          model.Address
	Verifier       model.Address
	TokenWallet    model.Address
	ForwardTag     string

	MaxAffiliates      uint32
	RequiredGasBuffer  model.Amount
	TokenTransferFee   model.Amount
	BotActionCodeLimit model.ActionCode

	QueueSize int
}

// DefaultConfig ...
func DefaultConfig() Config {
	params := ledger.DefaultParams()
	return Config{
		FactoryAddress:     "EQ-campaign-factory",
		ForwardTag:         params.ForwardTag,
		MaxAffiliates:      params.MaxAffiliates,
		RequiredGasBuffer:  params.RequiredGasBuffer,
		TokenTransferFee:   params.TokenTransferFee,
		BotActionCodeLimit: params.BotActionCodeLimit,
		QueueSize:          1024,
	}
}

// CampaignAddress is the account of a deployed campaign
func CampaignAddress(campaignID uint64) model.Address {
	return model.Address(fmt.Sprintf("EQ-campaign-%d", campaignID))
}

type submission struct {
	campaignID uint64
	msg        ledger.Message
}

// Node hosts campaign ledgers and executes submitted messages one at a time.
// Submission is asynchronous: the outcome is only visible in the history.
type Node struct {
	store   *Store
	conf    Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	nowFn   func() time.Time

	queue chan submission

	mu        sync.RWMutex
	campaigns map[uint64]*ledger.Ledger
	halted    bool

	// guarded by execMu
	execMu         sync.Mutex
	lt             uint64
	seq            uint64
	nextCampaignID uint64
	txTime         time.Time
	emitted        []notification.Event
}

// Option ...
type Option func(n *Node)

// WithNowFunc ...
func WithNowFunc(fn func() time.Time) Option {
	return func(n *Node) {
		n.nowFn = fn
	}
}

// WithMetrics ...
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Node) {
		n.metrics = m
	}
}

// NewNode creates a node and rebuilds its campaigns from the store journal
func NewNode(store *Store, conf Config, logger *zap.Logger, options ...Option) (*Node, error) {
	if conf.QueueSize <= 0 {
		conf.QueueSize = DefaultConfig().QueueSize
	}

	n := &Node{
		store:          store,
		conf:           conf,
		logger:         logger,
		nowFn:          time.Now,
		queue:          make(chan submission, conf.QueueSize),
		campaigns:      map[uint64]*ledger.Ledger{},
		nextCampaignID: 1,
	}
	for _, fn := range options {
		fn(n)
	}

	if err := n.restore(); err != nil {
		return nil, err
	}
	return n, nil
}

// Emit collects notifications of the message being executed
func (n *Node) Emit(evt notification.Event) {
	n.emitted = append(n.emitted, evt)
}

func (n *Node) newLedger(params ledger.Params) *ledger.Ledger {
	return ledger.New(params,
		ledger.WithEmitter(n),
		ledger.WithNowFunc(func() time.Time { return n.txTime }),
	)
}

func (n *Node) restore() error {
	ctx := context.Background()
	count := 0

	err := n.store.replay(func(entry journalEntry) error {
		n.lt = entry.Lt
		n.txTime = entry.CreatedAt
		count++

		switch entry.Kind {
		case journalKindDeploy:
			if entry.Params == nil {
				return fmt.Errorf("journal entry %d: deploy without params", entry.Lt)
			}
			n.campaigns[entry.CampaignID] = n.newLedger(*entry.Params)
			if entry.CampaignID >= n.nextCampaignID {
				n.nextCampaignID = entry.CampaignID + 1
			}

		case journalKindMessage:
			l, ok := n.campaigns[entry.CampaignID]
			if !ok || entry.Message == nil {
				return fmt.Errorf("journal entry %d: invalid message entry", entry.Lt)
			}
			_, _ = l.Execute(ctx, *entry.Message)

		default:
			return fmt.Errorf("journal entry %d: unknown kind %q", entry.Lt, entry.Kind)
		}

		n.emitted = n.emitted[:0]
		return nil
	})
	if err != nil {
		return err
	}

	seq, err := n.store.lastKey(notificationPrefix)
	if err != nil {
		return err
	}
	n.seq = seq

	if count > 0 {
		n.logger.Info("Restored node state",
			zap.Int("entries", count),
			zap.Int("campaigns", len(n.campaigns)),
			zap.Uint64("lt", n.lt),
			zap.Uint64("seq", n.seq),
		)
	}
	return nil
}

func (n *Node) notificationsOf(campaignID uint64, account model.Address, txHash string) []model.Notification {
	result := make([]model.Notification, 0, len(n.emitted))
	for _, evt := range n.emitted {
		n.seq++
		result = append(result, model.Notification{
			Seq:        n.seq,
			Account:    account,
			CampaignID: campaignID,
			TxHash:     txHash,
			Data:       notification.Encode(evt),
			CreatedAt:  n.txTime,
		})
	}
	n.emitted = n.emitted[:0]
	return result
}

// Deploy creates a new campaign for the advertiser, acting as the campaign factory
func (n *Node) Deploy(ctx context.Context, advertiser model.Address) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if advertiser == "" {
		return 0, errors.New("advertiser address required")
	}

	n.execMu.Lock()
	defer n.execMu.Unlock()

	if n.isHalted() {
		return 0, ErrJournalBehind
	}

	id := n.nextCampaignID
	params := ledger.Params{
		CampaignID:         id,
		Advertiser:         advertiser,
		Verifier:           n.conf.Verifier,
		Admin:              n.conf.Admin,
		TokenWallet:        n.conf.TokenWallet,
		ForwardTag:         n.conf.ForwardTag,
		MaxAffiliates:      n.conf.MaxAffiliates,
		RequiredGasBuffer:  n.conf.RequiredGasBuffer,
		TokenTransferFee:   n.conf.TokenTransferFee,
		BotActionCodeLimit: n.conf.BotActionCodeLimit,
	}

	n.lt++
	n.txTime = n.nowFn()
	txHash := util.TxHash(n.lt, id, string(n.conf.FactoryAddress))

	n.Emit(notification.CampaignCreated{CampaignID: id, Advertiser: advertiser})
	notifications := n.notificationsOf(id, n.conf.FactoryAddress, txHash)

	entry := journalEntry{
		Lt:         n.lt,
		Kind:       journalKindDeploy,
		CampaignID: id,
		Params:     &params,
		CreatedAt:  n.txTime,
	}
	if err := n.store.commit(entry, nil, notifications); err != nil {
		n.lt--
		n.seq -= uint64(len(notifications))
		return 0, err
	}

	n.mu.Lock()
	n.campaigns[id] = n.newLedger(params)
	n.mu.Unlock()

	n.nextCampaignID++
	n.metrics.ObserveTransaction("deploy", true, len(notifications))

	n.logger.Info("Deployed campaign",
		zap.Uint64("campaign_id", id),
		zap.String("advertiser", string(advertiser)),
	)
	return id, nil
}

func (n *Node) campaign(campaignID uint64) (*ledger.Ledger, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.halted {
		return nil, ErrJournalBehind
	}
	l, ok := n.campaigns[campaignID]
	if !ok {
		return nil, ErrCampaignNotFound
	}
	return l, nil
}

// Submit queues a message for a campaign. It returns before the message executes.
func (n *Node) Submit(ctx context.Context, campaignID uint64, msg ledger.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.Op == nil {
		return ledger.ErrUnknownOperation
	}
	if _, err := n.campaign(campaignID); err != nil {
		return err
	}

	select {
	case n.queue <- submission{campaignID: campaignID, msg: msg}:
		n.metrics.SetQueueDepth(len(n.queue))
		return nil
	default:
		return ErrQueueFull
	}
}

// Run executes queued messages until the context is cancelled
func (n *Node) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sub := <-n.queue:
			if err := n.execute(ctx, sub); err != nil {
				return err
			}
		}
	}
}

// ProcessPending executes every message queued so far and returns how many ran
func (n *Node) ProcessPending(ctx context.Context) (int, error) {
	count := 0
	for {
		select {
		case sub := <-n.queue:
			if err := n.execute(ctx, sub); err != nil {
				return count, err
			}
			count++
		default:
			return count, nil
		}
	}
}

func (n *Node) halt() {
	n.mu.Lock()
	n.halted = true
	n.mu.Unlock()
}

func (n *Node) isHalted() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.halted
}

func exitCodeOf(err error) uint32 {
	if err == nil {
		return 0
	}
	var ledgerErr *ledger.Error
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code
	}
	return ExitCodeInternal
}

func (n *Node) execute(ctx context.Context, sub submission) error {
	l, err := n.campaign(sub.campaignID)
	if err != nil {
		return err
	}

	n.execMu.Lock()
	defer n.execMu.Unlock()

	n.metrics.SetQueueDepth(len(n.queue))

	n.lt++
	n.txTime = n.nowFn()

	// accepted messages always run to completion
	result, execErr := l.Execute(context.WithoutCancel(ctx), sub.msg)

	tx := model.Transaction{
		Hash:        util.TxHash(n.lt, sub.campaignID, string(sub.msg.Sender)),
		Lt:          n.lt,
		CampaignID:  sub.campaignID,
		Sender:      sub.msg.Sender,
		Operation:   sub.msg.Op.Name(),
		Value:       sub.msg.Value,
		Success:     execErr == nil,
		ExitCode:    exitCodeOf(execErr),
		OutMessages: result.Payouts,
		CreatedAt:   n.txTime,
	}
	notifications := n.notificationsOf(sub.campaignID, CampaignAddress(sub.campaignID), tx.Hash)

	msg := sub.msg
	entry := journalEntry{
		Lt:         n.lt,
		Kind:       journalKindMessage,
		CampaignID: sub.campaignID,
		Message:    &msg,
		CreatedAt:  n.txTime,
	}
	if err := n.store.commit(entry, &tx, notifications); err != nil {
		n.lt--
		n.seq -= uint64(len(notifications))
		n.halt()

		n.logger.Error("Commit transaction, ledger state is ahead of the journal",
			zap.Uint64("lt", tx.Lt),
			zap.Uint64("campaign_id", tx.CampaignID),
			zap.Error(err),
		)
		return fmt.Errorf("commit transaction %d: %w", tx.Lt, err)
	}

	n.metrics.ObserveTransaction(tx.Operation, tx.Success, len(notifications))

	if execErr != nil {
		n.logger.Debug("Message rejected",
			zap.Uint64("campaign_id", tx.CampaignID),
			zap.String("operation", tx.Operation),
			zap.String("sender", string(tx.Sender)),
			zap.Uint32("exit_code", tx.ExitCode),
		)
	}
	return nil
}

// Campaign returns the campaign read model with liveness evaluated now
func (n *Node) Campaign(ctx context.Context, campaignID uint64) (model.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return model.Campaign{}, err
	}
	l, err := n.campaign(campaignID)
	if err != nil {
		return model.Campaign{}, err
	}
	return l.Snapshot(n.nowFn()), nil
}

// Affiliate ...
func (n *Node) Affiliate(ctx context.Context, campaignID uint64, affiliateID uint32) (model.Affiliate, error) {
	if err := ctx.Err(); err != nil {
		return model.Affiliate{}, err
	}
	l, err := n.campaign(campaignID)
	if err != nil {
		return model.Affiliate{}, err
	}
	aff, ok := l.Affiliate(affiliateID)
	if !ok {
		return model.Affiliate{}, ErrAffiliateNotFound
	}
	return aff, nil
}

// Affiliates returns the affiliates with from <= id < to
func (n *Node) Affiliates(ctx context.Context, campaignID uint64, from, to uint32) ([]model.Affiliate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, err := n.campaign(campaignID)
	if err != nil {
		return nil, err
	}
	return l.AffiliatesRange(from, to), nil
}

// RecentTransactions returns the newest transactions of a campaign first
func (n *Node) RecentTransactions(ctx context.Context, campaignID uint64, limit int) ([]model.Transaction, error) {
	if _, err := n.campaign(campaignID); err != nil {
		return nil, err
	}
	return n.store.RecentTransactions(ctx, campaignID, limit)
}

// Notifications returns notifications with seq > since in order
func (n *Node) Notifications(ctx context.Context, since uint64, limit int) ([]model.Notification, error) {
	return n.store.Notifications(ctx, since, limit)
}
