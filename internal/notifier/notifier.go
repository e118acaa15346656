package notifier

// Notifier delivers a rendered report to a push channel. Delivery
// failures are the caller's to log; they never abort an analysis run.
type Notifier interface {
	Send(title, content string) error
}

// Noop discards every message; used when no channel is configured.
type Noop struct{}

// NewNoop creates a no-op notifier.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) Send(string, string) error { return nil }
