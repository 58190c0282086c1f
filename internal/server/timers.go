package server

import (
	"sync"
	"time"
)

// roomTimer is the cancellation handle for one round countdown. Stop is
// idempotent: the reaper, the engine, and the timer itself may all try to
// stop the same countdown.
type roomTimer struct {
	stop chan struct{}
	once sync.Once
}

func newRoomTimer() *roomTimer {
	return &roomTimer{stop: make(chan struct{})}
}

func (t *roomTimer) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

func (t *roomTimer) Stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

// scheduleRoundTimer starts the once-per-second countdown for a room.
// Any previous timer for the same room is stopped first; at most one
// countdown runs per room.
func (s *Server) scheduleRoundTimer(roomID string) {
	s.timersMu.Lock()
	if existing, ok := s.timers[roomID]; ok {
		existing.Stop()
	}
	timer := newRoomTimer()
	s.timers[roomID] = timer
	s.timersMu.Unlock()
	go s.runRoundTimer(roomID, timer)
}

func (s *Server) cancelRoundTimer(roomID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[roomID]; ok {
		timer.Stop()
		delete(s.timers, roomID)
	}
}

func (s *Server) runRoundTimer(roomID string, timer *roomTimer) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-timer.stop:
			return
		case <-ticker.C:
			if !s.tickRoom(roomID, timer) {
				timer.Stop()
				return
			}
		}
	}
}

// tickRoom applies one countdown tick. It re-reads the room each time and
// backs off without mutating anything when the room is gone or no longer
// playing, so a concurrent delete or transition leaves the tick a no-op.
// Returns false when the countdown should stop.
func (s *Server) tickRoom(roomID string, timer *roomTimer) bool {
	stopped := false
	expired := false
	timeLeft := 0
	_, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying {
			stopped = true
			return nil
		}
		if room.RoundTimeLeft > 0 {
			room.RoundTimeLeft--
		}
		timeLeft = room.RoundTimeLeft
		expired = room.RoundTimeLeft <= 0
		return nil
	})
	if err != nil || stopped {
		return false
	}
	s.broadcastEvent(roomID, eventTimerUpdate, map[string]int{
		"roundTimeLeft": timeLeft,
	})
	if expired {
		s.endRound(roomID)
		return false
	}
	return true
}
