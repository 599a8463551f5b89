package markov

import "errors"

var (
	// ErrConstruction is returned when a table or alphabet cannot be built
	// from the given parameters.
	ErrConstruction = errors.New("markov: invalid table parameters")
	// ErrInvalidArgument is returned for a caller contract violation, such as
	// a training window of the wrong length.
	ErrInvalidArgument = errors.New("markov: invalid argument")
	// ErrInvalidState is returned when a slot cannot be resolved to a digit of
	// the table's alphabet.
	ErrInvalidState = errors.New("markov: invalid state")
	// ErrUnsupported is returned for a diagnostic request the table cannot
	// serve. The table remains usable.
	ErrUnsupported = errors.New("markov: unsupported")
	// ErrOverflow is returned by IntPow when the result exceeds int64.
	ErrOverflow = errors.New("markov: integer overflow")
)
