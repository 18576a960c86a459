package feedv1

import (
	"context"

	"github.com/segmentio/kafka-go"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// Reader defines the interface for consuming feed-connector order events.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=feedv1_mock
type Reader interface {
	// ReadMessage reads the next feed message and returns the parsed event.
	// A nil event with a nil error means the message was malformed and skipped.
	ReadMessage(ctx context.Context) (kafka.Message, *marketdatav1.OrderEvent, error)
	// SetOffset sets the offset for the reader
	SetOffset(offset int64) error
	// CommitMessages commits the messages to Kafka after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}
