package scheduler

import (
	"fmt"
	"strings"

	"github.com/thelolagemann/gbcore/internal/types"
)

// Scheduler is a simple event scheduler that can be used to schedule events
// to be executed at a specific cycle.
//
// The scheduler is a linked list of events, sorted by the cycle at which
// they should be executed. When an event is scheduled, it is inserted into
// the list in the correct position, and when the scheduler is ticked, every
// event that has become due is removed from the list and its handler run.
type Scheduler struct {
	cycles uint64
	root   *Event

	eventHandlers [eventTypes]func()
	events        [eventTypes]*Event // only one event of each type can be scheduled at a time
}

func NewScheduler() *Scheduler {
	s := &Scheduler{}

	// the events are allocated once and reused, so scheduling never
	// allocates
	for i := range s.events {
		s.events[i] = &Event{eventType: EventType(i)}
	}

	return s
}

// Cycle returns the number of cycles the scheduler has been ticked by.
func (s *Scheduler) Cycle() uint64 {
	return s.cycles
}

// RegisterEvent registers the function called when an event of the
// EventType fires.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.eventHandlers[eventType] = fn
}

// Tick advances the scheduler by the given number of cycles, executing
// every event due by the new cycle in the order they were scheduled for.
// A handler may schedule further events; those are run in the same Tick
// if they are already due.
func (s *Scheduler) Tick(c uint64) {
	s.cycles += c

	for s.root != nil && s.root.cycle <= s.cycles {
		event := s.root
		s.root = event.next
		event.next = nil
		event.scheduled = false

		if fn := s.eventHandlers[event.eventType]; fn != nil {
			fn()
		}
	}
}

// ScheduleEvent schedules an event to be executed after the given number
// of cycles. An event of the same type that is already scheduled is
// moved.
func (s *Scheduler) ScheduleEvent(eventType EventType, cycle uint64) {
	s.DescheduleEvent(eventType)

	this := s.events[eventType]
	this.cycle = s.cycles + cycle
	this.scheduled = true

	// events due on the same cycle run in the order they were scheduled
	if s.root == nil || this.cycle < s.root.cycle {
		this.next = s.root
		s.root = this
		return
	}

	prev := s.root
	for prev.next != nil && prev.next.cycle <= this.cycle {
		prev = prev.next
	}
	this.next = prev.next
	prev.next = this
}

// DescheduleEvent removes the event of the given type, if scheduled.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	this := s.events[eventType]
	if !this.scheduled {
		return
	}

	if s.root == this {
		s.root = this.next
	} else {
		for event := s.root; event != nil; event = event.next {
			if event.next == this {
				event.next = this.next
				break
			}
		}
	}
	this.next = nil
	this.scheduled = false
}

// Until returns the number of cycles until the event of the given type
// fires, and false if it is not scheduled.
func (s *Scheduler) Until(eventType EventType) (uint64, bool) {
	this := s.events[eventType]
	if !this.scheduled {
		return 0, false
	}
	return this.cycle - s.cycles, true
}

// Reset deschedules every event and zeroes the cycle counter. Handlers
// stay registered.
func (s *Scheduler) Reset() {
	for _, e := range s.events {
		e.Reset()
	}
	s.root = nil
	s.cycles = 0
}

func (s *Scheduler) String() string {
	var b strings.Builder
	for event := s.root; event != nil; event = event.next {
		fmt.Fprintf(&b, "%s:%d->", event.eventType, event.cycle)
	}
	return b.String()
}

var _ types.Stater = (*Scheduler)(nil)

// Load implements the types.Stater interface. Events are rescheduled in
// the order they were due when the state was saved.
func (s *Scheduler) Load(st *types.State) {
	s.Reset()
	cycles := st.Read64()
	n := st.Read8()
	for i := uint8(0); i < n; i++ {
		eventType := EventType(st.Read8())
		at := st.Read64()
		if eventType >= eventTypes || at < cycles {
			continue
		}
		s.cycles = cycles
		s.ScheduleEvent(eventType, at-cycles)
	}
	s.cycles = cycles
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - cycles (uint64)
//   - number of scheduled events (uint8)
//   - for each event in due order: type (uint8), cycle (uint64)
func (s *Scheduler) Save(st *types.State) {
	st.Write64(s.cycles)
	var n uint8
	for event := s.root; event != nil; event = event.next {
		n++
	}
	st.Write8(n)
	for event := s.root; event != nil; event = event.next {
		st.Write8(uint8(event.eventType))
		st.Write64(event.cycle)
	}
}
