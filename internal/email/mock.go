package email

import (
	"context"
	"sync"
)

// MockSender is a test double for Sender that records sent emails.
type MockSender struct {
	SendFunc func(ctx context.Context, email *Email) (string, error)

	mu   sync.Mutex
	sent []*Email
}

var _ Sender = (*MockSender)(nil)

func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}
	return "mock-message-id", nil
}

// Sent returns a copy of the emails sent through this sender.
func (m *MockSender) Sent() []*Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Email, len(m.sent))
	copy(out, m.sent)
	return out
}
