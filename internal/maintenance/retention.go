package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type publishedEvents interface {
	DeletePublishedBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
}

type deadLetters interface {
	DeleteFailedBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
	Backlog(ctx context.Context) (map[enums.OutboxDLQErrorReason]int64, error)
}

type OutboxRetentionParams struct {
	Logger *logger.Logger
	DB     txRunner
	Events publishedEvents
	DLQ    deadLetters
	// Metrics receives the dead-letter backlog after each run.
	Metrics *metrics.OutboxMetrics
	// Published is how long delivered quote events are kept.
	Published time.Duration
	// DeadLetters is how long undeliverable events are kept; 0 keeps them forever.
	DeadLetters time.Duration
	Clock       func() time.Time
}

// OutboxRetention trims delivered quote events and old dead letters.
type OutboxRetention struct {
	logg        *logger.Logger
	db          txRunner
	events      publishedEvents
	dlq         deadLetters
	metrics     *metrics.OutboxMetrics
	published   time.Duration
	deadLetters time.Duration
	now         func() time.Time
}

func NewOutboxRetention(params OutboxRetentionParams) (*OutboxRetention, error) {
	switch {
	case params.Logger == nil:
		return nil, errors.New("logger required")
	case params.DB == nil:
		return nil, errors.New("db runner required")
	case params.Events == nil:
		return nil, errors.New("outbox repository required")
	case params.Published <= 0:
		return nil, errors.New("published retention must be positive")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &OutboxRetention{
		logg:        params.Logger,
		db:          params.DB,
		events:      params.Events,
		dlq:         params.DLQ,
		metrics:     params.Metrics,
		published:   params.Published,
		deadLetters: params.DeadLetters,
		now:         clock,
	}, nil
}

func (j *OutboxRetention) Name() string { return "outbox-retention" }

func (j *OutboxRetention) Run(ctx context.Context) error {
	now := j.now().UTC()
	publishedCutoff := now.Add(-j.published)
	var events, letters int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.events.DeletePublishedBefore(tx, publishedCutoff)
		if err != nil {
			return err
		}
		events = n
		if j.dlq == nil || j.deadLetters <= 0 {
			return nil
		}
		letters, err = j.dlq.DeleteFailedBefore(tx, now.Add(-j.deadLetters))
		return err
	})
	if err != nil {
		return fmt.Errorf("outbox retention: %w", err)
	}
	fields := map[string]any{
		"published_cutoff": publishedCutoff,
		"events_deleted":   events,
		"dlq_deleted":      letters,
	}
	if j.dlq != nil {
		backlog, err := j.dlq.Backlog(ctx)
		if err != nil {
			return fmt.Errorf("dead-letter backlog: %w", err)
		}
		for _, reason := range enums.OutboxDLQErrorReasons {
			j.metrics.SetDeadLetters(string(reason), backlog[reason])
			fields["dlq_"+string(reason)] = backlog[reason]
		}
	}
	j.logg.Info(j.logg.WithFields(ctx, fields), "outbox retention complete")
	return nil
}
