package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/model/chat"
)

// advisoryScheduler tracks deferred advisories so Close can cancel them.
type advisoryScheduler struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	nextID  uint64
	pending map[uint64]*time.Timer
	closed  bool
}

func (a *advisoryScheduler) init() {
	a.pending = make(map[uint64]*time.Timer)
}

// schedule runs fn after delay unless the scheduler is closed first.
func (a *advisoryScheduler) schedule(delay time.Duration, fn func()) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}

	id := a.nextID
	a.nextID++
	a.wg.Add(1)
	a.pending[id] = time.AfterFunc(delay, func() {
		defer a.wg.Done()

		a.mu.Lock()
		_, live := a.pending[id]
		delete(a.pending, id)
		a.mu.Unlock()
		if live {
			fn()
		}
	})
	return true
}

func (a *advisoryScheduler) close() {
	a.mu.Lock()
	a.closed = true
	for id, timer := range a.pending {
		if timer.Stop() {
			a.wg.Done()
		}
		delete(a.pending, id)
	}
	a.mu.Unlock()

	a.wg.Wait()
}

// scheduleAdvisory queues the escalation notice for msg. It reports whether one
// was scheduled.
func (s *Service) scheduleAdvisory(msg chat.Message) bool {
	advisory := chat.Advisory{
		MessageID: msg.ID,
		Text:      AdvisoryText,
		Action:    chat.AdvisoryActionShowResources,
		Polarity:  *msg.Polarity,
	}

	scheduled := s.advisories.schedule(s.escalationDelay, func() {
		s.logger.Info("escalation advisory raised", zap.String("messageId", advisory.MessageID), zap.Float64("polarity", advisory.Polarity))
		if s.listener != nil {
			s.listener.OnAdvisory(advisory)
		}
	})
	return scheduled
}
