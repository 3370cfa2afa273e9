package mailer

import "log"

// Mailer sends a single HTML message. Implementations must be safe for
// concurrent use; the queue consumer calls Send from its delivery loop.
type Mailer interface {
	Send(toName, to, subject, content string) error
}

// LogMailer is the fallback used when no SMTP host is configured. It lets
// the rest of the pipeline run in development without a mail server.
type LogMailer struct {
	Printf func(format string, v ...any)
}

func (l *LogMailer) Send(toName, to, subject, content string) error {
	printf := l.Printf
	if printf == nil {
		printf = log.Printf
	}
	printf("mail (not sent, no SMTP configured) to=%q subject=%q", to, subject)
	return nil
}
