package vm

import "github.com/pkg/errors"

var (
	// ErrMalformedCommand is returned for a wrong token count or an
	// unparsable numeric argument.
	ErrMalformedCommand = errors.New("malformed command")

	// ErrUnknownCommand is returned when the leading token is neither an
	// operator nor a keyword.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidAccess is returned when an argument accessor is used on a
	// command that does not carry that argument.
	ErrInvalidAccess = errors.New("invalid argument access")
)
