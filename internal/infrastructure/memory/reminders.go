package memory

import (
	"context"
	"sync"
	"time"
)

type ReminderMarks struct {
	mu    sync.Mutex
	marks map[string]time.Time
	now   func() time.Time
}

func NewReminderMarks() *ReminderMarks {
	return &ReminderMarks{marks: make(map[string]time.Time), now: time.Now}
}

func (m *ReminderMarks) MarkReminded(ctx context.Context, orderID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks[orderID] = m.now().Add(ttl)
	return nil
}

func (m *ReminderMarks) Reminded(ctx context.Context, orderIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(orderIDs))
	now := m.now()
	for _, id := range orderIDs {
		if until, ok := m.marks[id]; ok && until.After(now) {
			out[id] = true
		}
	}
	return out, nil
}
