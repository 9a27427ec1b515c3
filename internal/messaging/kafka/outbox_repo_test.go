package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     uuid.NewString(),
		AggregateType: "leave",
		AggregateID:   uuid.NewString(),
		EventType:     "leave_status_changed",
		Topic:         "hr.leave.lifecycle.v1",
		Payload:       []byte(`{"old_status":"PENDING","new_status":"APPROVED"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts on the plain connection", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		repo := kafka.NewOutboxRepository(db)
		event := sampleEvent()

		mock.ExpectExec(`INSERT INTO outbox_events`).
			WithArgs(event.ID, event.RequestID, event.AggregateType,
				event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an undeliverable event never reaches the table", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		repo := kafka.NewOutboxRepository(db)
		event := sampleEvent()
		event.Topic = ""

		assert.Error(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet(), "no INSERT may be attempted")
	})

	t.Run("inserts inside a caller transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		assert.NoError(t, err)
		defer db.Close()

		event := sampleEvent()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO outbox_events`).
			WithArgs(event.ID, event.RequestID, event.AggregateType,
				event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)

		repo := kafka.NewOutboxRepository(db).WithTx(tx)
		assert.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_ListPending(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type",
		"topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow(
		uuid.NewString(), "leave", uuid.NewString(), "leave_status_changed",
		"hr.leave.lifecycle.v1", []byte(`{}`), kafka.OutboxStatusPending, 0, now,
	)

	mock.ExpectQuery(`SELECT`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	events, err := repo.ListPending(ctx, 50)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "leave_status_changed", events[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	id := uuid.NewString()

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(id, kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(ctx, id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)
	id := uuid.NewString()

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(id, kafka.OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkFailed(ctx, id, "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
