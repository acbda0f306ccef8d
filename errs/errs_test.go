package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSatisfiesErrorsIs(t *testing.T) {
	r := require.New(t)
	err := New(Malformed, "bad magic")

	r.ErrorIs(err, MalformedErr)
	r.NotErrorIs(err, InvalidErr)
}

func TestWrapPreservesCause(t *testing.T) {
	r := require.New(t)
	cause := fmt.Errorf("disk on fire")
	err := Wrap(Io, cause, "stream read failed")

	r.ErrorIs(err, IoErr)
	r.ErrorIs(err, cause)
}

func TestAtAndInAttachContext(t *testing.T) {
	r := require.New(t)
	err := New(Invalid, "finger number out of range").At(42).In("FVMR[1]", ".finger_number")

	r.Equal(int64(42), err.Pos)
	r.Contains(err.Error(), "FVMR[1]")
	r.Contains(err.Error(), "finger number out of range")
}

func TestPartialRoundTrip(t *testing.T) {
	r := require.New(t)
	err := New(EndOfData, "truncated FEDB").AsPartial()

	r.True(IsPartial(err))
	r.ErrorIs(err, EndOfDataErr)

	var asErr *Error
	r.True(errors.As(err, &asErr))
	r.True(asErr.Partial)
}

func TestIsPartialFalseForNonPartial(t *testing.T) {
	r := require.New(t)
	r.False(IsPartial(New(EndOfData, "eof")))
	r.False(IsPartial(New(Malformed, "bad")))
	r.False(IsPartial(nil))
}

func TestKindString(t *testing.T) {
	r := require.New(t)
	r.Equal("EndOfData", EndOfData.String())
	r.Equal("Overflow", Overflow.String())
	r.Equal("Unknown", Kind(99).String())
}
