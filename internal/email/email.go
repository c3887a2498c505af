package email

import (
	"context"
	"fmt"
	"time"
)

// Sender delivers a single message. Its result never changes booking state;
// the caller only records whether delivery worked.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender prints outgoing mail to stdout. Stands in for a real mail
// provider outside production.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	fmt.Printf("send email to %s subject %q\n%s\n", to, subject, body)
	return nil
}

// SendWithRetry re-sends a bounded number of times. Re-delivering a
// confirmation mail is harmless, so the worker may retry what the booking
// workflow itself never does.
func SendWithRetry(ctx context.Context, sender Sender, to, subject, body string, maxRetries int) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := sender.Send(ctx, to, subject, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < maxRetries-1 {
			select {
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
