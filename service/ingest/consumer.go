package ingest

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/model"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/pkg/kafkasink"
	"github.com/ton-affiliates/ton-affiliate-marketplace-sub001/repository"
)

// EventLogConsumer appends events to the MySQL event log, duplicates are ignored
type EventLogConsumer struct {
	provider repository.Provider
	repo     repository.EventLog
	logger   *zap.Logger
}

var _ Consumer = &EventLogConsumer{}

// NewEventLogConsumer ...
func NewEventLogConsumer(provider repository.Provider, repo repository.EventLog, logger *zap.Logger) *EventLogConsumer {
	return &EventLogConsumer{
		provider: provider,
		repo:     repo,
		logger:   logger,
	}
}

// Consume ...
func (c *EventLogConsumer) Consume(ctx context.Context, events []Event) error {
	records := make([]model.EventRecord, 0, len(events))
	for _, e := range events {
		records = append(records, model.EventRecord{
			Seq:           e.Seq,
			Account:       e.Account,
			CampaignID:    e.CampaignID,
			Kind:          e.Kind().String(),
			Discriminator: uint32(e.Kind()),
			TxHash:        e.TxHash,
			Data:          e.Data,
			EmittedAt:     e.EmittedAt,
		})
	}

	return c.provider.Transact(ctx, func(ctx context.Context) error {
		inserted, err := c.repo.InsertEvents(ctx, records)
		if err != nil {
			return err
		}
		if duplicated := int64(len(records)) - inserted; duplicated > 0 {
			c.logger.Info("Event log already seen", zap.Int64("duplicated", duplicated))
		}
		return nil
	})
}

// Publisher ...
type Publisher interface {
	Publish(ctx context.Context, msgs []kafkasink.Message) error
}

var _ Publisher = &kafkasink.Sink{}

// KafkaConsumer fans events out to a topic as JSON, keyed by campaign
type KafkaConsumer struct {
	publisher Publisher
}

var _ Consumer = &KafkaConsumer{}

// NewKafkaConsumer ...
func NewKafkaConsumer(publisher Publisher) *KafkaConsumer {
	return &KafkaConsumer{publisher: publisher}
}

type kafkaEvent struct {
	Seq        uint64        `json:"seq"`
	Kind       string        `json:"kind"`
	Account    model.Address `json:"account"`
	CampaignID uint64        `json:"campaign_id"`
	TxHash     string        `json:"tx_hash"`
	EmittedAt  time.Time     `json:"emitted_at"`

	Event interface{} `json:"event"`
}

// Consume ...
func (c *KafkaConsumer) Consume(ctx context.Context, events []Event) error {
	msgs := make([]kafkasink.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(kafkaEvent{
			Seq:        e.Seq,
			Kind:       e.Kind().String(),
			Account:    e.Account,
			CampaignID: e.CampaignID,
			TxHash:     e.TxHash,
			EmittedAt:  e.EmittedAt,
			Event:      e.Payload,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafkasink.Message{
			CampaignID: e.CampaignID,
			Kind:       e.Kind().String(),
			Value:      value,
			Time:       e.EmittedAt,
		})
	}
	return c.publisher.Publish(ctx, msgs)
}
