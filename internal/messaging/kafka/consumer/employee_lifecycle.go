package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"go-leavedesk/internal/events"
	"go-leavedesk/internal/leavesummary"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeLifecycleConsumer backfills leave summary rows when an employee is
// onboarded. InitForEmployee is idempotent, so redelivered events are safe.
type EmployeeLifecycleConsumer struct {
	reader    *kafkago.Reader
	summaries leavesummary.Service
	year      func() int
	logger    *zap.Logger
}

func NewEmployeeLifecycleConsumer(
	brokers []string,
	groupID string,
	summaries leavesummary.Service,
	logger *zap.Logger,
) *EmployeeLifecycleConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          events.EmployeeLifecycleTopic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // explicit commits only after successful handling
	})

	return &EmployeeLifecycleConsumer{
		reader:    reader,
		summaries: summaries,
		year:      func() int { return time.Now().UTC().Year() },
		logger:    logger.Named("kafka.consumer.employee_lifecycle"),
	}
}

func (c *EmployeeLifecycleConsumer) Run(ctx context.Context) {
	c.logger.Info("employee lifecycle consumer started",
		zap.String("topic", events.EmployeeLifecycleTopic),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				c.logger.Info("employee lifecycle consumer stopped")
				return
			}
			c.logger.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			// Leave the offset uncommitted so the event is redelivered.
			c.logger.Error("handle employee lifecycle event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit offset failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *EmployeeLifecycleConsumer) handle(ctx context.Context, msg kafkago.Message) error {
	var event events.EmployeeOnboardedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		// Poison payloads are logged and skipped, not retried forever.
		c.logger.Warn("discarding malformed lifecycle event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	created, err := c.summaries.InitForEmployee(ctx, event.TenantID, event.EmployeeID, c.year())
	if err != nil {
		return err
	}

	c.logger.Info("employee summaries initialized",
		zap.String("tenant_id", event.TenantID),
		zap.String("employee_id", event.EmployeeID),
		zap.Int("created", created),
	)
	return nil
}

func (c *EmployeeLifecycleConsumer) Close() error {
	return c.reader.Close()
}
