// Package feedreader consumes feed-connector order events from Kafka and
// accumulates them into the grouped event log a reconstruction pass replays.
package feedreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
	"github.com/AzuraKiko/CBOE-log/pkg/config"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
)

// Reader consumes feed-connector JSON lines from the feed topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a Kafka reader over the feed-connector topic.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads one feed-connector line and parses it into an OrderEvent.
// Lines that do not decode, or decode to a malformed event, are skipped: the
// message is returned with a nil event and nil error so the caller can still
// commit it.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *marketdatav1.OrderEvent, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		return kafka.Message{Offset: 0}, nil, err
	}

	var raw marketdatav1.RawOrderEvent
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		r.logger.Warn("skipping undecodable feed message",
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return msg, nil, nil
	}

	event, err := raw.ToEvent()
	if err != nil {
		r.logger.Warn("skipping malformed feed message",
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "messageType", Value: raw.MessageType},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return msg, nil, nil
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "orderID", Value: event.OrderID},
		logger.Field{Key: "symbol", Value: event.Symbol},
		logger.Field{Key: "type", Value: string(event.Type)},
		logger.Field{Key: "sequence", Value: event.Sequence},
	)

	return msg, &event, nil
}

// CommitMessages commits the messages to Kafka after processing.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(err, "CommitMessages")
		return err
	}
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
