package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is returned when the first token of a line is not a vm mnemonic.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidOperand is returned for missing, extra or malformed operands, and
	// when an operand is requested that the command doesn't define.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrUnknownSegment is returned for a segment name which is none of the eight segments.
	ErrUnknownSegment = errors.New("unknown segment")
	// ErrInvalidSegmentOp is returned for pop constant and pointer indexes other than 0 and 1.
	ErrInvalidSegmentOp = errors.New("invalid segment operation")
	// ErrClosed is returned when lines are written after the output has been closed.
	ErrClosed    = errors.New("writer is closed")
	ErrNoSources = errors.New("no vm sources found")
	ErrNotVMFile = errors.New("not a vm file")
)

// SyntaxError reports a malformed command in one input unit.
type SyntaxError struct {
	Unit string
	Line int
	Near string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("SyntaxError: %v near %q at line %d", e.Err, e.Near, e.Line)
	}
	return fmt.Sprintf("SyntaxError: %v near %q at %s:%d", e.Err, e.Near, e.Unit, e.Line)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
