package confirm

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/metrics"
)

//go:generate moq -out confirm_mocks_test.go . History Timer

// History gives access to the recent transactions of a campaign, newest first
type History interface {
	RecentTransactions(ctx context.Context, campaignID uint64, limit int) ([]model.Transaction, error)
}

// Timer ...
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realTimer struct{}

func (realTimer) Now() time.Time {
	return time.Now()
}

func (realTimer) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State of a confirmation
type State int

const (
	// StateSubmitted request not sent yet, before snapshot pending
	StateSubmitted State = iota + 1

	// StatePolling waiting for the snapshot to change
	StatePolling

	// StateDiagnosing attempts exhausted, looking for a failed transaction
	StateDiagnosing

	// StateConfirmed the expected change was observed
	StateConfirmed

	// StateFailed the transaction was found and it failed
	StateFailed

	// StateTimedOutUnknown no confirmation and no diagnosable cause, may still be pending
	StateTimedOutUnknown
)

func (s State) String() string {
	switch s {
	case StateSubmitted:
		return "submitted"
	case StatePolling:
		return "polling"
	case StateDiagnosing:
		return "diagnosing"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	case StateTimedOutUnknown:
		return "timed_out_unknown"
	default:
		return "unknown"
	}
}

// Final ...
func (s State) Final() bool {
	return s == StateConfirmed || s == StateFailed || s == StateTimedOutUnknown
}

// ErrTimedOutUnknown means the outcome is unknown: retry later or ask a human, never assume failure
var ErrTimedOutUnknown = errors.New("confirmation timed out, outcome unknown")

// FailedError reports a transaction found in history that failed during execution
type FailedError struct {
	ExitCode uint32
	Reason   string
	TxHash   string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("transaction %s failed with exit code %d: %s", e.TxHash, e.ExitCode, e.Reason)
}

// SnapshotFunc reads the ledger fields expected to change
type SnapshotFunc func(ctx context.Context) (interface{}, error)

// SubmitFunc sends the request, its result says nothing about the outcome
type SubmitFunc func(ctx context.Context) error

// Request ...
type Request struct {
	CampaignID uint64

	// Caller is the sender account, used to filter history on diagnosis
	Caller model.Address

	Snapshot SnapshotFunc
	Submit   SubmitFunc
}

// Config ...
type Config struct {
	Interval     time.Duration `mapstructure:"interval"`
	Attempts     int           `mapstructure:"attempts"`
	HistoryLimit int           `mapstructure:"history_limit"`
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		Interval:     2 * time.Second,
		Attempts:     20,
		HistoryLimit: 20,
	}
}

// Confirmer runs the submit, poll then diagnose protocol
type Confirmer struct {
	history  History
	conf     Config
	timer    Timer
	logger   *zap.Logger
	metrics  *metrics.Metrics
	describe func(code uint32) (string, bool)
}

// Option ...
type Option func(c *Confirmer)

// WithTimer ...
func WithTimer(timer Timer) Option {
	return func(c *Confirmer) {
		c.timer = timer
	}
}

// WithLogger ...
func WithLogger(logger *zap.Logger) Option {
	return func(c *Confirmer) {
		c.logger = logger
	}
}

// WithMetrics ...
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Confirmer) {
		c.metrics = m
	}
}

// WithCatalog sets the exit code lookup used by failure diagnosis
func WithCatalog(describe func(code uint32) (string, bool)) Option {
	return func(c *Confirmer) {
		c.describe = describe
	}
}

// NewConfirmer ...
func NewConfirmer(history History, conf Config, options ...Option) *Confirmer {
	defaults := DefaultConfig()
	if conf.Interval <= 0 {
		conf.Interval = defaults.Interval
	}
	if conf.Attempts <= 0 {
		conf.Attempts = defaults.Attempts
	}
	if conf.HistoryLimit <= 0 {
		conf.HistoryLimit = defaults.HistoryLimit
	}

	c := &Confirmer{
		history: history,
		conf:    conf,
		timer:   realTimer{},
		logger:  zap.NewNop(),
		describe: func(uint32) (string, bool) {
			return "", false
		},
	}
	for _, fn := range options {
		fn(c)
	}
	return c
}

// Process is one confirmation in progress, advanced by Step
type Process struct {
	c   *Confirmer
	req Request

	state   State
	attempt int

	schedule    backoff.BackOff
	before      interface{}
	after       interface{}
	submittedAt time.Time
	err         error
}

// Start creates a process in StateSubmitted without doing any IO
func (c *Confirmer) Start(req Request) *Process {
	return &Process{
		c:     c,
		req:   req,
		state: StateSubmitted,
		schedule: backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.conf.Interval), uint64(c.conf.Attempts),
		),
	}
}

// State ...
func (p *Process) State() State {
	return p.state
}

// Attempt returns the number of polls done so far
func (p *Process) Attempt() int {
	return p.attempt
}

// Result returns the observed snapshot on StateConfirmed, otherwise the error of the final state
func (p *Process) Result() (interface{}, error) {
	if p.state == StateConfirmed {
		return p.after, nil
	}
	return nil, p.err
}

// Step performs one transition. An error means the step could not run (cancelled
// context, snapshot or submission failure before sending); the state is then unchanged.
func (p *Process) Step(ctx context.Context) error {
	switch p.state {
	case StateSubmitted:
		return p.submit(ctx)
	case StatePolling:
		return p.poll(ctx)
	case StateDiagnosing:
		return p.diagnose(ctx)
	default:
		return nil
	}
}

func (p *Process) submit(ctx context.Context) error {
	before, err := p.req.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot before submit: %w", err)
	}

	submittedAt := p.c.timer.Now()
	if err := p.req.Submit(ctx); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	p.before = before
	p.submittedAt = submittedAt
	p.schedule.Reset()
	p.state = StatePolling
	return nil
}

func (p *Process) poll(ctx context.Context) error {
	d := p.schedule.NextBackOff()
	if d == backoff.Stop {
		p.state = StateDiagnosing
		return nil
	}

	if err := p.c.timer.Sleep(ctx, d); err != nil {
		return err
	}
	p.attempt++

	current, err := p.req.Snapshot(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		p.c.logger.Warn("Poll snapshot",
			zap.Uint64("campaign_id", p.req.CampaignID),
			zap.Int("attempt", p.attempt),
			zap.Error(err),
		)
		return nil
	}

	if !reflect.DeepEqual(p.before, current) {
		p.after = current
		p.finish(StateConfirmed, nil)
	}
	return nil
}

func (p *Process) diagnose(ctx context.Context) error {
	txs, err := p.c.history.RecentTransactions(ctx, p.req.CampaignID, p.c.conf.HistoryLimit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		p.c.logger.Warn("Diagnose history", zap.Uint64("campaign_id", p.req.CampaignID), zap.Error(err))
		p.finish(StateTimedOutUnknown, ErrTimedOutUnknown)
		return nil
	}

	for _, tx := range txs {
		if tx.Sender != p.req.Caller || tx.CreatedAt.Before(p.submittedAt) {
			continue
		}
		if tx.Success {
			break
		}

		reason, ok := p.c.describe(tx.ExitCode)
		if !ok {
			reason = fmt.Sprintf("unknown exit code %d", tx.ExitCode)
		}
		p.finish(StateFailed, &FailedError{
			ExitCode: tx.ExitCode,
			Reason:   reason,
			TxHash:   tx.Hash,
		})
		return nil
	}

	p.finish(StateTimedOutUnknown, ErrTimedOutUnknown)
	return nil
}

func (p *Process) finish(state State, err error) {
	p.state = state
	p.err = err
	p.c.metrics.ObserveConfirmation(state.String(), p.c.timer.Now().Sub(p.submittedAt))

	if state != StateConfirmed {
		p.c.logger.Info("Confirmation not observed",
			zap.Uint64("campaign_id", p.req.CampaignID),
			zap.String("caller", string(p.req.Caller)),
			zap.String("state", state.String()),
			zap.Int("attempts", p.attempt),
			zap.Error(err),
		)
	}
}

// Run drives a request to a final state. It returns the new snapshot on confirmation,
// a *FailedError, ErrTimedOutUnknown, or the error that stopped a step.
func (c *Confirmer) Run(ctx context.Context, req Request) (interface{}, error) {
	p := c.Start(req)
	for !p.state.Final() {
		if err := p.Step(ctx); err != nil {
			return nil, err
		}
	}
	return p.Result()
}
