package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/config"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/db/models"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/enums"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox/payloads"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/outbox/registry"
)

const testTopic = "asesfy-quote-events"

type fakeDB struct {
	pingErr error
}

func (f fakeDB) Ping(context.Context) error { return f.pingErr }

func (fakeDB) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeTopics struct{}

func (fakeTopics) Ping(context.Context) error            { return nil }
func (fakeTopics) Publisher(string) *gcppubsub.Publisher { return nil }

type fakeStore struct {
	rows      []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (s *fakeStore) FetchUnpublishedForPublish(_ *gorm.DB, limit, _ int) ([]models.OutboxEvent, error) {
	if len(s.rows) > limit {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *fakeStore) MarkPublishedTx(_ *gorm.DB, id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *fakeStore) MarkFailedTx(_ *gorm.DB, id uuid.UUID, _ error) error {
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeStore) MarkTerminalTx(_ *gorm.DB, id uuid.UUID, _ error, _ int) error {
	s.terminal = append(s.terminal, id)
	return nil
}

type fakeDLQ struct {
	entries []models.OutboxDLQ
	err     error
}

func (d *fakeDLQ) InsertTx(_ *gorm.DB, entry models.OutboxDLQ) error {
	if d.err != nil {
		return d.err
	}
	d.entries = append(d.entries, entry)
	return nil
}

type sentMessage struct {
	topic string
	msg   *gcppubsub.Message
}

type scriptedSend struct {
	errs []error
	sent []sentMessage
}

func (s *scriptedSend) send(_ context.Context, topic string, msg *gcppubsub.Message) (string, error) {
	s.sent = append(s.sent, sentMessage{topic: topic, msg: msg})
	if len(s.errs) == 0 {
		return "server-id", nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	if err != nil {
		return "", err
	}
	return "server-id", nil
}

func quoteRow(t *testing.T, attempts int) models.OutboxEvent {
	t.Helper()
	quoteID := uuid.New()
	data, err := json.Marshal(payloads.QuoteRequestedEvent{
		QuoteRequestID: quoteID,
		Reference:      "Q-20260101-ABCD",
		FullName:       "Ana García",
		Email:          "ana@example.com",
		ClientType:     enums.ClientTypePyme,
		Items: []payloads.QuoteRequestItem{
			{ServiceCode: "aut_alta_express", ServiceName: "Alta Express", Category: enums.CategoryAutonomos, Quantity: 1},
		},
		RequestedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	payload, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventQuoteRequested,
		AggregateType: enums.AggregateQuoteRequest,
		AggregateID:   quoteID,
		Payload:       payload,
		AttemptCount:  attempts,
	}
}

type fixture struct {
	publisher *Publisher
	store     *fakeStore
	dlq       *fakeDLQ
	sender    *scriptedSend
	reg       *prometheus.Registry
}

func newFixture(t *testing.T, rows []models.OutboxEvent, sendErrs ...error) fixture {
	t.Helper()
	eventRegistry, err := registry.New(config.PubSubConfig{QuotesTopic: testTopic})
	require.NoError(t, err)

	f := fixture{
		store:  &fakeStore{rows: rows},
		dlq:    &fakeDLQ{},
		sender: &scriptedSend{errs: sendErrs},
		reg:    prometheus.NewRegistry(),
	}
	f.publisher, err = NewPublisher(PublisherParams{
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:       fakeDB{},
		Topics:   fakeTopics{},
		Events:   f.store,
		DLQ:      f.dlq,
		Registry: eventRegistry,
		Metrics:  metrics.NewOutboxMetrics(f.reg),
		Outbox:   config.OutboxConfig{BatchSize: 10, MaxAttempts: 3},
		Send:     f.sender.send,
	})
	require.NoError(t, err)
	return f
}

func TestDrainPublishesQuoteEvents(t *testing.T) {
	row := quoteRow(t, 0)
	f := newFixture(t, []models.OutboxEvent{row})

	n, err := f.publisher.drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []uuid.UUID{row.ID}, f.store.published)
	require.Len(t, f.sender.sent, 1)

	sent := f.sender.sent[0]
	require.Equal(t, testTopic, sent.topic)
	require.Equal(t, string(enums.EventQuoteRequested), sent.msg.Attributes["event_type"])
	require.Equal(t, row.AggregateID.String(), sent.msg.Attributes["aggregate_id"])
	require.Equal(t, "Q-20260101-ABCD", sent.msg.Attributes["reference"])
	require.JSONEq(t, string(row.Payload), string(sent.msg.Data))
}

func TestDrainContinuesAfterTransientFailure(t *testing.T) {
	first, second := quoteRow(t, 0), quoteRow(t, 0)
	f := newFixture(t, []models.OutboxEvent{first, second}, errors.New("unavailable"), nil)

	n, err := f.publisher.drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []uuid.UUID{first.ID}, f.store.failed)
	require.Equal(t, []uuid.UUID{second.ID}, f.store.published)
	require.Empty(t, f.dlq.entries)
	require.Equal(t, 1.0, f.counter(t, resultRetry))
	require.Equal(t, 1.0, f.counter(t, resultPublished))
}

func TestDrainDeadLettersAfterMaxAttempts(t *testing.T) {
	row := quoteRow(t, 2)
	f := newFixture(t, []models.OutboxEvent{row}, errors.New("deadline exceeded"))

	_, err := f.publisher.drain(context.Background())
	require.NoError(t, err)
	require.Len(t, f.dlq.entries, 1)
	require.Equal(t, enums.OutboxDLQReasonMaxAttempts, f.dlq.entries[0].ErrorReason)
	require.Equal(t, row.ID, f.dlq.entries[0].EventID)
	require.NotNil(t, f.dlq.entries[0].ErrorMessage)
	require.Contains(t, *f.dlq.entries[0].ErrorMessage, "deadline exceeded")
	require.False(t, f.dlq.entries[0].FailedAt.IsZero())
	require.Equal(t, []uuid.UUID{row.ID}, f.store.terminal)
	require.Empty(t, f.store.failed)
}

func TestDrainDeadLettersUndecodableRows(t *testing.T) {
	row := quoteRow(t, 0)
	row.Payload = json.RawMessage(`{"version":1,"eventId":"x","data":null}`)
	f := newFixture(t, []models.OutboxEvent{row})

	_, err := f.publisher.drain(context.Background())
	require.NoError(t, err)
	require.Empty(t, f.sender.sent)
	require.Len(t, f.dlq.entries, 1)
	require.Equal(t, enums.OutboxDLQReasonNonRetryable, f.dlq.entries[0].ErrorReason)
	require.JSONEq(t, string(row.Payload), string(f.dlq.entries[0].Payload))
}

func TestDrainAbortsWhenDeadLetterInsertFails(t *testing.T) {
	row := quoteRow(t, 0)
	row.EventType = "unknown_event"
	f := newFixture(t, []models.OutboxEvent{row})
	f.dlq.err = errors.New("disk full")

	_, err := f.publisher.drain(context.Background())
	require.ErrorContains(t, err, "insert dlq")
	require.Empty(t, f.store.terminal)
}

func TestDefaultSendTreatsMissingPublisherAsTerminal(t *testing.T) {
	row := quoteRow(t, 0)
	f := newFixture(t, []models.OutboxEvent{row})
	f.publisher.send = f.publisher.sendPubSub

	_, err := f.publisher.drain(context.Background())
	require.NoError(t, err)
	require.Len(t, f.dlq.entries, 1)
	require.Equal(t, enums.OutboxDLQReasonNonRetryable, f.dlq.entries[0].ErrorReason)
}

func TestRunFailsFastWhenDatabaseIsDown(t *testing.T) {
	f := newFixture(t, nil)
	f.publisher.db = fakeDB{pingErr: errors.New("refused")}

	err := f.publisher.Run(context.Background())
	require.ErrorContains(t, err, "database ping failed")
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := f.publisher.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewPublisherRequiresDependencies(t *testing.T) {
	_, err := NewPublisher(PublisherParams{})
	require.Error(t, err)
}

func (f fixture) counter(t *testing.T, result string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "asesfy_outbox_events_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range m.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["event_type"] == string(enums.EventQuoteRequested) && labels["result"] == result {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
