package kafkasink

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config ...
type Config struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled ...
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0 && c.Topic != ""
}

// Message is one record to publish, keyed by campaign so a campaign stays on one partition
type Message struct {
	CampaignID uint64
	Kind       string
	Value      []byte
	Time       time.Time
}

// Writer is the subset of *kafka.Writer used by Sink
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink publishes ordered messages to a single topic
type Sink struct {
	writer Writer
	topic  string
}

// ErrNoBrokers ...
var ErrNoBrokers = errors.New("kafka sink requires at least one broker")

// New ...
func New(conf Config) (*Sink, error) {
	if len(conf.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return NewWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(conf.Brokers...),
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
	}, conf.Topic), nil
}

// NewWithWriter ...
func NewWithWriter(writer Writer, topic string) *Sink {
	return &Sink{
		writer: writer,
		topic:  topic,
	}
}

func (s *Sink) buildMessages(msgs []Message) []kafka.Message {
	result := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		result = append(result, kafka.Message{
			Topic: s.topic,
			Key:   []byte(strconv.FormatUint(m.CampaignID, 10)),
			Value: m.Value,
			Headers: []kafka.Header{
				{Key: "kind", Value: []byte(m.Kind)},
			},
			Time: m.Time.UTC(),
		})
	}
	return result
}

// Publish writes all messages in order, the write is retried by the caller as a whole
func (s *Sink) Publish(ctx context.Context, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return s.writer.WriteMessages(ctx, s.buildMessages(msgs)...)
}

// Close ...
func (s *Sink) Close() error {
	return s.writer.Close()
}
