package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/artfolio/artwork-indexer/internal/adapter"
	"github.com/artfolio/artwork-indexer/internal/domain"
	"github.com/artfolio/artwork-indexer/internal/logger"
	"github.com/artfolio/artwork-indexer/internal/projector"
)

// Config holds the configuration for the event consumer
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Consumer drains artwork events from JetStream into the projector
type Consumer interface {
	// Run starts consuming and blocks until the context is canceled
	Run(ctx context.Context) error
	// Close closes the consumer and cleans up resources
	Close()
}

type consumer struct {
	nc        adapter.NatsConn
	js        adapter.JetStream
	projector projector.Projector
	json      adapter.JSON
	config    Config
}

// New creates a new event consumer
func New(
	cfg Config,
	natsJS adapter.NatsJetStream,
	proj projector.Projector,
	jsonAdapter adapter.JSON,
) (Consumer, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &consumer{
		nc:        nc,
		js:        js,
		projector: proj,
		json:      jsonAdapter,
		config:    cfg,
	}, nil
}

// Run starts consuming artwork events. Messages are processed strictly one
// at a time on this goroutine so that projections are applied in ledger
// order; the channel only decouples the NATS callback from the handler.
func (c *consumer) Run(ctx context.Context) error {
	logger.Info("Starting event consumer",
		zap.String("stream", c.config.StreamName),
		zap.String("consumer", c.config.ConsumerName))

	subject := "events.*.>"

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWaitTimeout,
		MaxDeliver:    c.config.MaxDeliver,
		FilterSubject: subject,
		// A single outstanding message keeps delivery order aligned with
		// processing order across redeliveries.
		MaxAckPending: 1,
	}

	jsConsumer, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := jsConsumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := jsConsumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down event consumer")
			return ctx.Err()
		case msg := <-msgChan:
			c.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes a single NATS message
func (c *consumer) handleMessage(ctx context.Context, msg adapter.Message) {
	metadata, _ := msg.Metadata()

	var event domain.ArtworkEvent
	if err := c.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal event"))
		// Terminate message for unparseable data
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	if !event.Valid() {
		logger.Warn("Dropping malformed event",
			zap.String("eventType", string(event.EventType)),
			zap.String("txHash", event.TxHash))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	fields := []zap.Field{
		zap.String("chain", string(event.Chain)),
		zap.String("eventType", string(event.EventType)),
		zap.String("artworkNumber", event.ArtworkNumber),
		zap.String("txHash", event.TxHash),
	}
	if metadata != nil {
		fields = append(fields, zap.Uint64("deliveryCount", metadata.NumDelivered))
	}
	logger.Info("Received event", fields...)

	if err := c.projector.Dispatch(ctx, &event); err != nil {
		logger.Error(err, zap.String("message", "Failed to project event"))
		// Redeliver; projection errors are transient (database outages)
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to nak message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ack message"))
	}
}

// Close closes the NATS connection
func (c *consumer) Close() {
	if c.nc == nil {
		return
	}

	c.nc.Close()
}
