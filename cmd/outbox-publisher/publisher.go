package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/models"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox/registry"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxAttempts  = 10
	publishTimeout      = 15 * time.Second
	maxBackoff          = 10 * time.Second
	jitterWindow        = 250 * time.Millisecond
)

const (
	resultPublished    = "published"
	resultRetry        = "retry"
	resultDeadLettered = "dead_lettered"
)

type txDB interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type eventStore interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type deadLetters interface {
	InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error
}

type eventResolver interface {
	Resolve(models.OutboxEvent) (*registry.Routed, error)
}

// sendFunc publishes one message and waits for the server id.
type sendFunc func(ctx context.Context, topic string, msg *gcppubsub.Message) (string, error)

type topicSource interface {
	Ping(context.Context) error
	Publisher(name string) *gcppubsub.Publisher
}

type PublisherParams struct {
	Logger   *logger.Logger
	DB       txDB
	Topics   topicSource
	Events   eventStore
	DLQ      deadLetters
	Registry eventResolver
	Metrics  *metrics.OutboxMetrics
	Outbox   config.OutboxConfig
	// Send overrides the Pub/Sub transport in tests.
	Send sendFunc
}

// Publisher relays quote events from outbox_events to Pub/Sub. Rows that can never be
// delivered are moved to outbox_dlq.
type Publisher struct {
	logg         *logger.Logger
	db           txDB
	topics       topicSource
	events       eventStore
	dlq          deadLetters
	registry     eventResolver
	metrics      *metrics.OutboxMetrics
	send         sendFunc
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewPublisher(params PublisherParams) (*Publisher, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	case params.Topics == nil:
		return nil, errors.New("pubsub client is required")
	case params.Events == nil:
		return nil, errors.New("outbox repository is required")
	case params.DLQ == nil:
		return nil, errors.New("dlq repository is required")
	case params.Registry == nil:
		return nil, errors.New("event registry is required")
	}

	p := &Publisher{
		logg:         params.Logger,
		db:           params.DB,
		topics:       params.Topics,
		events:       params.Events,
		dlq:          params.DLQ,
		registry:     params.Registry,
		metrics:      params.Metrics,
		send:         params.Send,
		batchSize:    positiveOr(params.Outbox.BatchSize, defaultBatchSize),
		maxAttempts:  positiveOr(params.Outbox.MaxAttempts, defaultMaxAttempts),
		pollInterval: defaultPollInterval,
	}
	if params.Outbox.PollIntervalMS > 0 {
		p.pollInterval = time.Duration(params.Outbox.PollIntervalMS) * time.Millisecond
	}
	if p.send == nil {
		p.send = p.sendPubSub
	}
	return p, nil
}

// Run drains the outbox until ctx is cancelled. Batch errors back off exponentially.
func (p *Publisher) Run(ctx context.Context) error {
	for name, ping := range map[string]func(context.Context) error{"database": p.db.Ping, "pubsub": p.topics.Ping} {
		if err := ping(ctx); err != nil {
			p.logg.Error(ctx, name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
	}

	backoff := p.pollInterval
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := p.drain(ctx)
		switch {
		case err != nil:
			p.logg.Error(ctx, "outbox batch failed", err)
			backoff = min(backoff*2, maxBackoff)
			if err := sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
		case n > 0:
			backoff = p.pollInterval
		default:
			backoff = p.pollInterval
			if err := sleep(ctx, withJitter(p.pollInterval)); err != nil {
				return err
			}
		}
	}
}

// drain handles one locked batch and returns how many rows it touched. Only storage
// failures abort the batch; publish failures are recorded per row.
func (p *Publisher) drain(ctx context.Context) (int, error) {
	count := 0
	err := p.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := p.events.FetchUnpublishedForPublish(tx, p.batchSize, p.maxAttempts)
		if err != nil {
			return err
		}
		for _, row := range rows {
			result, err := p.dispatch(ctx, tx, row)
			if err != nil {
				return err
			}
			p.metrics.Inc(string(row.EventType), result)
			count++
		}
		return nil
	})
	return count, err
}

func (p *Publisher) dispatch(ctx context.Context, tx *gorm.DB, row models.OutboxEvent) (string, error) {
	fields := map[string]any{
		"outbox_id":     row.ID.String(),
		"event_type":    row.EventType,
		"aggregate_id":  row.AggregateID.String(),
		"attempt_count": row.AttemptCount,
	}

	routed, err := p.registry.Resolve(row)
	if err != nil {
		return resultDeadLettered, p.deadLetter(ctx, tx, row, enums.OutboxDLQReasonNonRetryable, err, fields)
	}
	fields["event_id"] = routed.Envelope.EventID
	fields["topic"] = routed.Route.Topic

	msg := &gcppubsub.Message{
		Data:       row.Payload,
		Attributes: routed.Attributes(row),
	}
	sendCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	serverID, sendErr := p.send(sendCtx, routed.Route.Topic, msg)
	cancel()

	if sendErr == nil {
		if err := p.events.MarkPublishedTx(tx, row.ID); err != nil {
			return "", fmt.Errorf("mark published %s: %w", row.ID, err)
		}
		fields["message_id"] = serverID
		p.logg.Info(p.logg.WithFields(ctx, fields), "outbox event published")
		return resultPublished, nil
	}

	if registry.IsPermanent(sendErr) {
		return resultDeadLettered, p.deadLetter(ctx, tx, row, enums.OutboxDLQReasonNonRetryable, sendErr, fields)
	}
	if row.AttemptCount+1 >= p.maxAttempts {
		return resultDeadLettered, p.deadLetter(ctx, tx, row, enums.OutboxDLQReasonMaxAttempts,
			fmt.Errorf("max publish attempts reached: %w", sendErr), fields)
	}

	warnCtx := p.logg.WithFields(ctx, fields)
	p.logg.Warn(p.logg.WithField(warnCtx, "error", sendErr.Error()), "outbox publish failed")
	if err := p.events.MarkFailedTx(tx, row.ID, sendErr); err != nil {
		return "", fmt.Errorf("mark failed %s: %w", row.ID, err)
	}
	return resultRetry, nil
}

func (p *Publisher) deadLetter(ctx context.Context, tx *gorm.DB, row models.OutboxEvent, reason enums.OutboxDLQErrorReason, cause error, fields map[string]any) error {
	fields["error_reason"] = reason
	warnCtx := p.logg.WithFields(ctx, fields)
	p.logg.Warn(p.logg.WithField(warnCtx, "error", cause.Error()), "outbox event dead-lettered")

	if err := p.dlq.InsertTx(tx, models.DeadLetterOf(row, reason, cause, time.Now())); err != nil {
		return fmt.Errorf("insert dlq %s: %w", row.ID, err)
	}
	if err := p.events.MarkTerminalTx(tx, row.ID, cause, p.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", row.ID, err)
	}
	return nil
}

func (p *Publisher) sendPubSub(ctx context.Context, topic string, msg *gcppubsub.Message) (string, error) {
	pub := p.topics.Publisher(topic)
	if pub == nil {
		return "", registry.Permanent(fmt.Errorf("publisher not configured for topic %s", topic))
	}
	return pub.Publish(ctx, msg).Get(ctx)
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func withJitter(d time.Duration) time.Duration {
	return d + rand.N(jitterWindow)
}
