package worker

import (
	"context"

	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/service"
)

// StartNotificationWorker registers notification handlers and, for queue
// backed dispatchers, starts the background consumer.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, dispatcher events.Dispatcher) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()

	if runner, ok := dispatcher.(interface{ Run(context.Context) }); ok {
		go runner.Run(ctx)
	}
}
