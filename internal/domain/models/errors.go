package models

import "errors"

// ErrLoanNotFound is returned when an identifier resolves to no loan.
var ErrLoanNotFound = errors.New("loan not found")
