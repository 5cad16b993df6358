package alert

import (
	"context"

	"github.com/pratik-mahalle/creditwatch/internal/domain/notification"
)

// Notifier is the external collaborator that actually delivers
// desktop, sound, email, or SMS notifications for a newly created
// alert. Delivery failures are the notifier's concern: the store logs
// the returned error and never fails the originating Ingest.
type Notifier interface {
	Notify(ctx context.Context, a *Alert, prefs notification.Preferences) error
}
