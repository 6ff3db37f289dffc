package worker

import (
	"github.com/civic-stack/grievance-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
// Delivery is fire-and-forget: a failed notification never blocks or fails
// the complaint operation that triggered it.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
