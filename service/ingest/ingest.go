package ingest

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/memtable"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/metrics"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/notification"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/repository"
)

//go:generate moq -out ingest_mocks_test.go . Source Consumer Lease Publisher
//go:generate otelwrap --out consumer_wrappers.go . Consumer

// Source is the notification stream of the ledger, records ordered by seq
type Source interface {
	Notifications(ctx context.Context, since uint64, limit int) ([]model.Notification, error)
}

// Consumer receives decoded events in seq order. Delivery is at least once,
// a Consumer must tolerate events it has already seen.
type Consumer interface {
	Consume(ctx context.Context, events []Event) error
}

// Lease guards the checkpoint against a second active pipeline
type Lease interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

// Event is a decoded notification with its stream position
type Event struct {
	Seq        uint64
	Account    model.Address
	CampaignID uint64
	TxHash     string
	EmittedAt  time.Time

	Payload notification.Event
	Data    []byte
}

// Kind ...
func (e Event) Kind() notification.Kind {
	return e.Payload.Kind()
}

// Config ...
type Config struct {
	Name      string        `mapstructure:"name"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`

	// Accounts of interest, empty means every account
	Accounts []string `mapstructure:"accounts"`

	LeaseKey string        `mapstructure:"lease_key"`
	LeaseTTL time.Duration `mapstructure:"lease_ttl"`

	MemTableSize int `mapstructure:"mem_table_size"`
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		Name:         "default",
		Interval:     time.Second,
		BatchSize:    100,
		LeaseKey:     "ingest-lease",
		LeaseTTL:     15 * time.Second,
		MemTableSize: 4 * 1024 * 1024,
	}
}

// ErrBlocked is reported by Healthy while a record waits for an operator
var ErrBlocked = errors.New("ingestion blocked on undecodable notification")

// Batch is the result of one poll
type Batch struct {
	// Records of interest with seq > since, in seq order
	Records []model.Notification

	// Last is the highest seq returned by the source, filtered records included
	Last uint64
}

// Pipeline drains the notification stream into consumers and persists its checkpoint
type Pipeline struct {
	source      Source
	provider    repository.Provider
	checkpoints repository.Checkpoint
	failures    repository.FailedNotification
	consumers   []Consumer
	lease       Lease
	marks       *memtable.MemTable

	conf     Config
	accounts map[model.Address]struct{}
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mut        sync.Mutex
	loaded     bool
	checkpoint uint64
	blockedAt  uint64
	lastErr    error
}

// Option ...
type Option func(p *Pipeline)

// WithLogger ...
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics ...
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLease ...
func WithLease(lease Lease) Option {
	return func(p *Pipeline) {
		p.lease = lease
	}
}

// WithConsumers ...
func WithConsumers(consumers ...Consumer) Option {
	return func(p *Pipeline) {
		p.consumers = append(p.consumers, consumers...)
	}
}

// NewPipeline ...
func NewPipeline(
	source Source, provider repository.Provider,
	checkpoints repository.Checkpoint, failures repository.FailedNotification,
	conf Config, options ...Option,
) *Pipeline {
	defaults := DefaultConfig()
	if conf.Name == "" {
		conf.Name = defaults.Name
	}
	if conf.Interval <= 0 {
		conf.Interval = defaults.Interval
	}
	if conf.BatchSize <= 0 {
		conf.BatchSize = defaults.BatchSize
	}
	if conf.LeaseTTL <= 0 {
		conf.LeaseTTL = defaults.LeaseTTL
	}
	if conf.MemTableSize <= 0 {
		conf.MemTableSize = defaults.MemTableSize
	}

	accounts := make(map[model.Address]struct{}, len(conf.Accounts))
	for _, a := range conf.Accounts {
		accounts[model.Address(a)] = struct{}{}
	}

	p := &Pipeline{
		source:      source,
		provider:    provider,
		checkpoints: checkpoints,
		failures:    failures,
		marks:       memtable.New(conf.MemTableSize),
		conf:        conf,
		accounts:    accounts,
		logger:      zap.NewNop(),
	}
	for _, fn := range options {
		fn(p)
	}
	return p
}

// Checkpoint returns the last persisted position known by this pipeline
func (p *Pipeline) Checkpoint() uint64 {
	p.mut.Lock()
	defer p.mut.Unlock()
	return p.checkpoint
}

// Healthy returns nil when the last batch succeeded
func (p *Pipeline) Healthy() error {
	p.mut.Lock()
	defer p.mut.Unlock()

	if p.blockedAt != 0 {
		return fmt.Errorf("%w: seq %d", ErrBlocked, p.blockedAt)
	}
	return p.lastErr
}

func (p *Pipeline) interested(account model.Address) bool {
	if len(p.accounts) == 0 {
		return true
	}
	_, ok := p.accounts[account]
	return ok
}

// Poll fetches the records after since, keeping only the accounts of interest
func (p *Pipeline) Poll(ctx context.Context, since uint64) (Batch, error) {
	records, err := p.source.Notifications(ctx, since, p.conf.BatchSize)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{Last: since}
	for _, rec := range records {
		if rec.Seq <= since {
			continue
		}
		if rec.Seq > batch.Last {
			batch.Last = rec.Seq
		}
		if !p.interested(rec.Account) {
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	sort.Slice(batch.Records, func(i, j int) bool {
		return batch.Records[i].Seq < batch.Records[j].Seq
	})
	return batch, nil
}

func (p *Pipeline) loadCheckpoint(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	seq, err := p.checkpoints.GetCheckpoint(p.provider.Readonly(ctx), p.conf.Name)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	p.checkpoint = seq
	p.loaded = true
	return nil
}

// skippable reports whether an operator has allowed the pipeline past rec,
// otherwise the failure is recorded for the operator
func (p *Pipeline) skippable(ctx context.Context, rec model.Notification, decodeErr error) (bool, error) {
	failed, err := p.failures.GetFailedNotification(p.provider.Readonly(ctx), rec.Seq)
	if err == nil {
		return failed.Status == model.FailedNotificationStatusSkipped, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	p.logger.Error("Decode notification",
		zap.Uint64("seq", rec.Seq),
		zap.Uint64("campaign_id", rec.CampaignID),
		zap.String("tx_hash", rec.TxHash),
		zap.Uint32("discriminator", rec.Discriminator()),
		zap.String("payload", hex.EncodeToString(rec.Data)),
		zap.Error(decodeErr),
	)

	err = p.provider.Transact(ctx, func(ctx context.Context) error {
		return p.failures.InsertFailedNotification(ctx, model.FailedNotification{
			Seq:           rec.Seq,
			Discriminator: rec.Discriminator(),
			Data:          rec.Data,
			Reason:        decodeErr.Error(),
			Status:        model.FailedNotificationStatusPending,
		})
	})
	return false, err
}

// ProcessBatch decodes and delivers a batch then persists the new checkpoint.
// A record that fails to decode stops the batch, the checkpoint stays just before it.
func (p *Pipeline) ProcessBatch(ctx context.Context, batch Batch) (int, error) {
	p.mut.Lock()
	defer p.mut.Unlock()

	delivered, err := p.processBatch(ctx, batch)
	p.lastErr = err
	p.metrics.ObserveBatch(err == nil, p.checkpoint, p.blockedAt != 0)
	return delivered, err
}

func (p *Pipeline) processBatch(ctx context.Context, batch Batch) (int, error) {
	if err := p.loadCheckpoint(ctx); err != nil {
		return 0, err
	}

	next := p.checkpoint
	blockedAt := uint64(0)
	events := make([]Event, 0, len(batch.Records))

	for _, rec := range batch.Records {
		if rec.Seq <= p.checkpoint {
			continue
		}

		payload, err := notification.Decode(rec.Data)
		if err != nil {
			skip, err := p.skippable(ctx, rec, err)
			if err != nil {
				return 0, fmt.Errorf("record failed notification %d: %w", rec.Seq, err)
			}
			if !skip {
				blockedAt = rec.Seq
				break
			}
			next = rec.Seq
			continue
		}

		events = append(events, Event{
			Seq:        rec.Seq,
			Account:    rec.Account,
			CampaignID: rec.CampaignID,
			TxHash:     rec.TxHash,
			EmittedAt:  rec.CreatedAt,
			Payload:    payload,
			Data:       rec.Data,
		})
		next = rec.Seq
	}
	if blockedAt == 0 && batch.Last > next {
		next = batch.Last
	}

	fresh := p.unseen(events)
	if len(fresh) > 0 {
		for _, c := range p.consumers {
			if err := c.Consume(ctx, fresh); err != nil {
				return 0, fmt.Errorf("consume: %w", err)
			}
		}
	}
	for _, e := range fresh {
		p.marks.Advance(e.CampaignID, e.Seq)
		p.metrics.ObserveEvent(e.Kind().String())
	}

	if next > p.checkpoint {
		err := p.provider.Transact(ctx, func(ctx context.Context) error {
			return p.checkpoints.SaveCheckpoint(ctx, p.conf.Name, next)
		})
		if err != nil {
			return 0, fmt.Errorf("save checkpoint: %w", err)
		}
		p.checkpoint = next
	}
	p.blockedAt = blockedAt

	return len(fresh), nil
}

// unseen drops events at or below the delivered high water mark of their campaign
func (p *Pipeline) unseen(events []Event) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		if seq, ok := p.marks.HighWater(e.CampaignID); ok && e.Seq <= seq {
			continue
		}
		result = append(result, e)
	}
	return result
}

// RunOnce polls from the current checkpoint and processes one batch
func (p *Pipeline) RunOnce(ctx context.Context) (int, error) {
	p.mut.Lock()
	err := p.loadCheckpoint(ctx)
	since := p.checkpoint
	p.mut.Unlock()
	if err != nil {
		return 0, err
	}

	batch, err := p.Poll(ctx, since)
	if err != nil {
		p.mut.Lock()
		p.lastErr = err
		p.mut.Unlock()
		p.metrics.ObserveBatch(false, since, false)
		return 0, fmt.Errorf("poll: %w", err)
	}
	return p.ProcessBatch(ctx, batch)
}

func (p *Pipeline) holdLease(ctx context.Context) bool {
	if p.lease == nil {
		return true
	}
	ok, err := p.lease.Acquire(ctx, p.conf.LeaseTTL)
	if err != nil {
		p.logger.Warn("Acquire ingest lease", zap.Error(err))
		return false
	}
	return ok
}

// Run processes a batch every interval until ctx is cancelled.
// Batches run only while the lease is held, the checkpoint is reloaded after each takeover.
func (p *Pipeline) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.conf.Interval)
	defer ticker.Stop()

	held := false
	defer func() {
		if held && p.lease != nil {
			_ = p.lease.Release(context.WithoutCancel(ctx))
		}
	}()

	for {
		ok := p.holdLease(ctx)
		if ok && !held {
			p.logger.Info("Ingest lease acquired", zap.String("name", p.conf.Name))
			p.mut.Lock()
			p.loaded = false
			p.marks.Clear()
			p.mut.Unlock()
		}
		if !ok && held {
			p.logger.Warn("Ingest lease lost", zap.String("name", p.conf.Name))
		}
		held = ok

		if held {
			n, err := p.RunOnce(ctx)
			if err != nil && ctx.Err() == nil {
				p.logger.Error("Ingest batch", zap.Error(err))
			} else if n > 0 {
				p.logger.Debug("Ingest batch", zap.Int("events", n), zap.Uint64("checkpoint", p.Checkpoint()))
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Skip lets the pipeline move past a pending failed record
func Skip(ctx context.Context, provider repository.Provider, failures repository.FailedNotification, seq uint64) error {
	var ok bool
	err := provider.Transact(ctx, func(ctx context.Context) error {
		var err error
		ok, err = failures.MarkSkipped(ctx, seq)
		return err
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no pending failed notification with seq %d", seq)
	}
	return nil
}
