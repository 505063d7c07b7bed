package reminder

import (
	"log/slog"

	"github.com/Rohit-1301/Health/internal/email"
	"github.com/Rohit-1301/Health/internal/push"
)

// Channels builds the notifier for whichever delivery channels are
// configured. With none, reminders are only written to the log.
func Channels(emailClient *email.Client, pushNotifier *push.Notifier, logger *slog.Logger) Notifier {
	var ns []Notifier
	if emailClient != nil && emailClient.Configured() {
		ns = append(ns, NewEmailNotifier(emailClient))
	}
	if pushNotifier != nil {
		ns = append(ns, NewPushNotifier(pushNotifier))
	}

	switch len(ns) {
	case 0:
		logger.Warn("no reminder channels configured, reminders will only be logged")
		return NewLogNotifier(logger)
	case 1:
		return ns[0]
	}
	return NewMultiNotifier(logger, ns...)
}
