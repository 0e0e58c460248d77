package dump

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax             = errors.New("dump syntax error")
	ErrUnexpectedEOF      = errors.New("unexpected end of input")
	ErrExpectedToken      = errors.New("expected token")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnknownAtom        = errors.New("unknown atom")
)

// SyntaxError reports malformed dump text. Pos is a byte offset into the
// input. It matches ErrSyntax and the sentinel named by Reason.
type SyntaxError struct {
	Reason   error
	Pos      int
	Expected string
	Lexeme   string
}

func (e *SyntaxError) Error() string {
	switch e.Reason {
	case ErrExpectedToken:
		return fmt.Sprintf("dump:%d: expected %s", e.Pos, e.Expected)
	case ErrUnknownAtom:
		return fmt.Sprintf("dump:%d: unknown atom %q", e.Pos, e.Lexeme)
	}
	return fmt.Sprintf("dump:%d: %s", e.Pos, e.Reason)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{ErrSyntax, e.Reason}
}
