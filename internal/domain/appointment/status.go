package appointment

import "github.com/BruksfildServices01/clinica-otica/internal/httperr"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDone, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusDone, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransition allows pending→confirmed|cancelled and
// confirmed→done|cancelled. Done and cancelled are terminal.
func CanTransition(from, to Status) error {
	if _, ok := ParseStatus(string(to)); !ok {
		return httperr.ErrBusiness("invalid_status")
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusinessMsg(
		"invalid_transition",
		"Não é possível alterar o status de "+string(from)+" para "+string(to)+".",
	)
}

// HoldsSlot reports whether an appointment in this status occupies its time.
func HoldsSlot(s Status) bool {
	return s != StatusCancelled
}

// InitialStatus is the status of every new booking.
func InitialStatus() Status {
	return StatusPending
}
