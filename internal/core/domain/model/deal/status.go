package deal

import (
	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery deal.
//
// Lifecycle:
//
//	PENDING_PAYMENT ──> WAITING_FOR_TRANSPORTER ──> TRANSPORTER_ASSIGNED ──> PICKED_UP
//	                                                                            │
//	                                        ┌───────────────┬──────────────────┤
//	                                        ▼               ▼                  ▼
//	                                   IN_TRANSIT ──> OUT_FOR_DELIVERY ──> DELIVERED ──> COMPLETED
//
// CANCELLED is reachable administratively from any non-terminal state.
// COMPLETED and CANCELLED are terminal.
type Status int

const (
	// StatusUnknown catches uninitialized Status values.
	StatusUnknown Status = iota

	// PendingPayment is the initial state: the deal exists but funds have
	// not been held yet, so no transporter can see it.
	PendingPayment

	// WaitingForTransporter means escrow is held and the deal is visible in
	// the matching pool.
	WaitingForTransporter

	// TransporterAssigned means exactly one transporter won the claim.
	TransporterAssigned

	// PickedUp means the pickup code was verified and custody transferred
	// to the transporter.
	PickedUp

	// InTransit and OutForDelivery are en-route states reported by the
	// transporter.
	InTransit
	OutForDelivery

	// Delivered means the goods reached the drop location.
	Delivered

	// Completed is the terminal success state; settlement has been triggered.
	Completed

	// Cancelled is the terminal administrative state.
	Cancelled
)

var statusStrings = map[Status]string{
	StatusUnknown:         "UNKNOWN",
	PendingPayment:        "PENDING_PAYMENT",
	WaitingForTransporter: "WAITING_FOR_TRANSPORTER",
	TransporterAssigned:   "TRANSPORTER_ASSIGNED",
	PickedUp:              "PICKED_UP",
	InTransit:             "IN_TRANSIT",
	OutForDelivery:        "OUT_FOR_DELIVERY",
	Delivered:             "DELIVERED",
	Completed:             "COMPLETED",
	Cancelled:             "CANCELLED",
}

// transporterTransitions is the table of manual status updates the assigned
// transporter may request. System transitions (payment, claim, OTP
// verification, cancellation) do not go through this table. Transitions not
// listed here are rejected with InvalidStateError.
var transporterTransitions = map[Status][]Status{
	TransporterAssigned: {PickedUp},
	PickedUp:            {InTransit, OutForDelivery, Delivered},
	InTransit:           {OutForDelivery, Delivered},
	OutForDelivery:      {Delivered, Completed},
	Delivered:           {Completed},
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status")
}

// String returns the wire representation of the status.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// IsTerminal reports whether no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActiveDelivery reports whether the deal is between claim and terminal
// state, i.e. the window in which location sharing may be toggled.
func (s Status) IsActiveDelivery() bool {
	switch s {
	case TransporterAssigned, PickedUp, InTransit, OutForDelivery, Delivered:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a manual transporter update from s to next
// is in the transition table.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transporterTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
