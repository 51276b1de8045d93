package vox

import (
	"sync"
	"time"
)

type Slot string

const (
	SlotListening  Slot = "listening"
	SlotProcessing Slot = "processing"
)

// Scheduler runs delayed tasks keyed by slot. Scheduling into a slot that
// still holds a pending task cancels that task first.
type Scheduler interface {
	Schedule(slot Slot, d time.Duration, fn func())
	Cancel(slot Slot) bool
	Stop()
}

type timerTask struct {
	timer *time.Timer
	seq   uint64
}

type TimerScheduler struct {
	mu      sync.Mutex
	tasks   map[Slot]timerTask
	seq     uint64
	stopped bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{tasks: make(map[Slot]timerTask)}
}

func (s *TimerScheduler) Schedule(slot Slot, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if prev, ok := s.tasks[slot]; ok {
		prev.timer.Stop()
	}

	s.seq++
	seq := s.seq

	s.tasks[slot] = timerTask{
		seq: seq,
		timer: time.AfterFunc(d, func() {
			if !s.take(slot, seq) {
				return
			}
			fn()
		}),
	}
}

// take removes the task if it is still the current one for slot.
func (s *TimerScheduler) take(slot Slot, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[slot]
	if !ok || t.seq != seq {
		return false
	}
	delete(s.tasks, slot)
	return true
}

func (s *TimerScheduler) Cancel(slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[slot]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(s.tasks, slot)
	return true
}

func (s *TimerScheduler) Pending(slot Slot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[slot]
	return ok
}

func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slot, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, slot)
	}
	s.stopped = true
}
