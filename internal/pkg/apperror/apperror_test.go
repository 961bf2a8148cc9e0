package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindClassification(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad postcode %q", "abc"), KindValidation},
		{"conflict", Conflict("username taken"), KindConflict},
		{"internal", Internal(cause, "provider unreachable"), KindInternal},
		{"plain error counts as internal", errors.New("boom"), KindInternal},
		{"wrapped keeps kind", fmt.Errorf("outer: %w", Conflict("taken")), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInternalCarriesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "provider unreachable")

	if !errors.Is(err, cause) {
		t.Error("Internal() must wrap its cause")
	}
	if msg := err.Error(); msg != "provider unreachable: connection refused" {
		t.Errorf("Error() = %q", msg)
	}
}

func TestPredicates(t *testing.T) {
	if !IsValidation(Validation("x")) || IsValidation(Conflict("x")) {
		t.Error("IsValidation misclassifies")
	}
	if !IsConflict(Conflict("x")) || IsConflict(Validation("x")) {
		t.Error("IsConflict misclassifies")
	}
	if !IsInternal(Internal(nil, "x")) || IsInternal(Conflict("x")) {
		t.Error("IsInternal misclassifies")
	}
}
