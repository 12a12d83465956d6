package memory

import (
	"time"
)

// reap is the background expiry loop started by New.
//
// Each pass removes every due key and derives the next deadline from the
// index. The loop then sleeps until that deadline, a wake signal from Set,
// or Close.
func (s *Store) reap() {
	defer close(s.doneCh)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		next, ok := s.purgeExpired()

		if ok {
			timer.Reset(next.Sub(s.now()))
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
			case <-s.stopCh:
				return
			}
		} else {
			select {
			case <-s.wake:
			case <-s.stopCh:
				return
			}
		}

		s.observer.ReaperWoke()
	}
}

// purgeExpired removes all keys whose deadline has passed and returns the
// earliest remaining deadline, if any.
func (s *Store) purgeExpired() (time.Time, bool) {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for _, e := range s.expirations.popDue(now) {
		cur, ok := s.entries[e.key]
		if !ok || !cur.expiresAt.Equal(e.when) {
			continue
		}
		delete(s.entries, e.key)
		removed++
	}
	next, ok := s.expirations.earliest()
	s.mu.Unlock()

	if removed > 0 {
		s.observer.KeysExpired(removed)
		s.logger.Debug("expired keys removed",
			"count", removed,
			"has_next", ok,
		)
	}
	return next, ok
}
