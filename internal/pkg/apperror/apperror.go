package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller. Orchestrators map every failure to
// exactly one kind before returning it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Validation marks a precondition or caller-input failure. No side effects
// were performed, so nothing needs compensation.
func Validation(format string, args ...interface{}) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// Conflict marks a workflow that already completed or a resource that already
// exists.
func Conflict(format string, args ...interface{}) error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// Internal marks a dependency or persistence failure. Rollback has been
// attempted by the time callers see this.
func Internal(cause error, format string, args ...interface{}) error {
	return &Error{kind: KindInternal, msg: fmt.Sprintf(format, args...), err: cause}
}

// KindOf classifies any error. Unclassified errors count as internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindInternal
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsInternal(err error) bool   { return KindOf(err) == KindInternal }
