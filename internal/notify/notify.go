// Package notify turns scheduler notifications into user-facing messages and
// delivers them to notification backends.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/message"

	"pomobell/internal/core/schedule"
)

// Message is a notification request for an OS-level backend.
type Message struct {
	Title     string
	Body      string
	PlaySound bool

	Kind      schedule.NotificationKind
	LongBreak bool
}

// Notifier delivers a message.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, msg Message) error

func (fn NotifierFunc) Notify(ctx context.Context, msg Message) error {
	return fn(ctx, msg)
}

// Composer localizes notifications.
type Composer struct {
	printer *message.Printer
}

// NewComposer builds a composer for locale ("en", "ja", ...). Unknown locales
// fall back to English.
func NewComposer(locale string) (*Composer, error) {
	printer, err := newPrinter(locale)
	if err != nil {
		return nil, fmt.Errorf("build message catalog: %w", err)
	}
	return &Composer{printer: printer}, nil
}

// Compose renders the title and body for a notification.
func (composer *Composer) Compose(notification schedule.Notification) Message {
	msg := Message{
		PlaySound: notification.PlaySound,
		Kind:      notification.Kind,
		LongBreak: notification.LongBreak,
	}

	switch notification.Kind {
	case schedule.NotifyInterval:
		msg.Title = composer.printer.Sprintf(keyTimerTitle)
		msg.Body = composer.printer.Sprintf(keyIntervalBody, notification.Cycle, notification.Total)
	case schedule.NotifyWorkComplete:
		msg.Title = composer.printer.Sprintf(keyPomodoroTitle)
		if notification.LongBreak {
			msg.Body = composer.printer.Sprintf(keyLongBreakBody)
		} else {
			msg.Body = composer.printer.Sprintf(keyShortBreakBody)
		}
	case schedule.NotifyBreakComplete:
		msg.Title = composer.printer.Sprintf(keyPomodoroTitle)
		msg.Body = composer.printer.Sprintf(keyWorkBody)
	}
	return msg
}

// LogNotifier writes notifications to the log. Used when no desktop is available.
type LogNotifier struct {
	Logger *slog.Logger
}

func (notifier LogNotifier) Notify(_ context.Context, msg Message) error {
	notifier.Logger.Info("notification",
		"title", msg.Title,
		"body", msg.Body,
		"sound", msg.PlaySound,
	)
	return nil
}

// Multi delivers to every notifier and joins the failures.
type Multi []Notifier

func (notifiers Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, notifier := range notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
