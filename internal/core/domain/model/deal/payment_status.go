package deal

import "dispatch/internal/pkg/errs"

// PaymentStatus tracks the escrow state of the deal's funds.
type PaymentStatus int

const (
	// PaymentUnknown catches uninitialized values.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending means the payer has not funded the deal yet.
	PaymentPending

	// PaymentHeld means the total cost was debited from the payer's wallet
	// and is held against the deal. Only held deals enter the matching pool.
	PaymentHeld

	// PaymentReleased means the held funds were released on completion.
	PaymentReleased
)

var paymentStatusStrings = map[PaymentStatus]string{
	PaymentUnknown:  "UNKNOWN",
	PaymentPending:  "PENDING",
	PaymentHeld:     "HELD",
	PaymentReleased: "RELEASED",
}

// PaymentStatusFromString parses the wire representation of a payment
// status.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range paymentStatusStrings {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidError("payment status")
}

// String returns the wire representation of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := paymentStatusStrings[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects PaymentUnknown and out-of-range values.
func (s PaymentStatus) Validate() error {
	if _, ok := paymentStatusStrings[s]; !ok || s == PaymentUnknown {
		return errs.NewValueIsInvalidError("payment status")
	}
	return nil
}
