package types

// ControllerState is the externally visible lifecycle state of the controller.
type ControllerState string

const (
	StateInit         ControllerState = "init"
	StateOperational  ControllerState = "operational"
	StateFaulted      ControllerState = "faulted"
	StateFaultAck     ControllerState = "fault-ack"
	StateShuttingDown ControllerState = "shutting-down"
)

// Direction is the commanded rotation direction. It is a small integer so it
// fits in an atomic word when it crosses execution contexts.
type Direction uint8

const (
	DirectionForward Direction = iota
	DirectionReverse
)

func (d Direction) String() string {
	if d == DirectionReverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection maps the wire form ("forward"/"reverse") back to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "forward":
		return DirectionForward, true
	case "reverse":
		return DirectionReverse, true
	default:
		return DirectionForward, false
	}
}

// LoopMode selects which regulator variant the scheduler dispatches to.
type LoopMode string

const (
	LoopTorque LoopMode = "torque"
	LoopSpeed  LoopMode = "speed"
)
