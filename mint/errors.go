package mint

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the initializing authority has not
	// co-signed as the payer of the request.
	ErrUnauthorized = errors.New("unauthorized: authority does not match payer")

	// ErrAlreadyInitialized is returned when the target account already
	// holds mint state.
	ErrAlreadyInitialized = errors.New("mint account already initialized")

	// ErrInsufficientFunding is returned when the target account does not
	// hold enough lamports to pass the token program's rent checks.
	ErrInsufficientFunding = errors.New("mint account insufficiently funded")
)
