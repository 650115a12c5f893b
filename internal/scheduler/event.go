package scheduler

// EventType identifies an event. Only one event of each type can be
// scheduled at a time.
type EventType uint8

const (
	// FrameEnd fires at the end of every 70224 cycle frame.
	FrameEnd EventType = iota
	// RunEnd fires when a cycle budget given to the machine runs out.
	RunEnd
	// SerialBitTransfer fires when the serial port shifts its next bit.
	SerialBitTransfer

	eventTypes
)

var eventNames = [eventTypes]string{
	FrameEnd:          "FrameEnd",
	RunEnd:            "RunEnd",
	SerialBitTransfer: "SerialBitTransfer",
}

func (t EventType) String() string {
	if t < eventTypes {
		return eventNames[t]
	}
	return "Unknown"
}

type Event struct {
	cycle     uint64
	eventType EventType
	scheduled bool
	next      *Event
}

func (e *Event) Reset() {
	e.cycle = 0
	e.scheduled = false
	e.next = nil
}
