// Package notification delivers messages as desktop notifications.
package notification

import (
	"context"

	"fyne.io/fyne/v2"

	"pomobell/internal/notify"
)

// Sender is the subset of fyne.App used to post notifications.
type Sender interface {
	SendNotification(*fyne.Notification)
}

// Notifier posts each message through the fyne app.
type Notifier struct {
	sender Sender
}

// New creates a desktop notifier.
func New(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Notify posts msg. Sound is handled by a separate notifier.
func (n *Notifier) Notify(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.sender.SendNotification(fyne.NewNotification(msg.Title, msg.Body))
	return nil
}
