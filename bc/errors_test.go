package bc

import (
	"errors"
	"testing"
)

func TestErrorIsMatchesOnKindOnly(t *testing.T) {
	err := errf(MissingGlobalID, "value %s was never registered", "x")
	if !errors.Is(err, &Error{Kind: MissingGlobalID}) {
		t.Error("errors.Is should match on Kind alone")
	}
	if errors.Is(err, &Error{Kind: ArenaOverflow}) {
		t.Error("errors.Is should not match a different Kind")
	}
}

func TestWrapfPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := wrapf(InvariantViolation, cause, "encoding failed")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through wrapf to the wrapped cause")
	}
}
