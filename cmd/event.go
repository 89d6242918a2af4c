package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/internal/hierarchy"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish test events and inspect the handlers registered on the event bus`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus with the audit handlers attached, for debugging`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var (
	eventEmployee   string
	eventSupervisor string
)

func publishTestEvent(eventType string) error {
	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)
	hierarchy.NewAuditHandler(logger).RegisterEventHandlers(eventBus)

	var event events.Event
	switch eventType {
	case events.EventTypeHierarchyReparented:
		event = events.NewHierarchyReparentedEvent(eventEmployee, nil, eventSupervisor)
	case events.EventTypeHierarchyAttachmentUpdated:
		event = events.NewHierarchyAttachmentUpdatedEvent(eventEmployee, &eventSupervisor, nil, nil, false)
	default:
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			logger.Info("test handler received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
		event = events.BaseEvent{
			ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"employee_id": eventEmployee,
				"source":      "cli-command",
			},
		}
	}

	logger.Info("publishing test event",
		"event_type", eventType,
		"event_id", event.EventID(),
		"handlers", eventBus.HandlerCount(eventType))

	ctx := context.Background()
	if err := eventBus.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := eventBus.Wait(waitCtx); err != nil {
		return fmt.Errorf("handlers did not finish: %w", err)
	}
	logger.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventEmployee, "employee", "E005", "employee id carried by the event")
	publishEventCmd.Flags().StringVar(&eventSupervisor, "supervisor", "E002", "supervisor id carried by the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
