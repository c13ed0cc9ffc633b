package checkout

import "errors"

var (
	ErrUnknownField      = errors.New("unknown address field")
	ErrSubmitInProgress  = errors.New("checkout submission in progress")
	ErrCheckoutCompleted = errors.New("checkout already completed")
)
