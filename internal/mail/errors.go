package mail

import (
	"errors"
	"fmt"
)

// DeliveryError reports a failure while talking to the SMTP server.
// Op is "connect" for dial, STARTTLS and authentication failures and
// "submit" for failures while handing over the message.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("smtp %s failed: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsDeliveryError reports whether err is, or wraps, a *DeliveryError.
func IsDeliveryError(err error) bool {
	var dErr *DeliveryError
	return errors.As(err, &dErr)
}
