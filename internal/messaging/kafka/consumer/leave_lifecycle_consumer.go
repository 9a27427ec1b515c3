package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-hrms/internal/events"
	"go-hrms/internal/reconciliation"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle tails the leave lifecycle topic and persists
// reconciliation-failure events as incidents. Status-changed events are
// acknowledged without action; they exist for downstream consumers.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	incidents reconciliation.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		if eventType(msg) != events.EventLeaveReconciliationFailed {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		var event events.LeaveReconciliationFailedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode reconciliation event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		incident, err := mapToIncident(event)
		if err != nil {
			log.Error("invalid reconciliation event, skipping",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := incidents.Create(ctx, incident); err != nil {
			log.Error("persist reconciliation incident failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Warn("balance reconciliation incident recorded",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("action", event.Action),
			zap.Int("days", event.Days),
		)
	}
}

func eventType(msg kafkago.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}

func mapToIncident(event events.LeaveReconciliationFailedEvent) (*reconciliation.Incident, error) {
	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return nil, err
	}
	employeeID, err := uuid.Parse(event.EmployeeID)
	if err != nil {
		return nil, err
	}
	leaveID, err := uuid.Parse(event.LeaveID)
	if err != nil {
		return nil, err
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return &reconciliation.Incident{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		LeaveID:    leaveID,
		Action:     event.Action,
		Days:       event.Days,
		Reason:     event.Reason,
		OccurredAt: occurredAt,
	}, nil
}
