package rbtree

import (
	"errors"

	"github.com/ansel1/merry"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvariantViolation is the panic value cause of a broken link or color
	// invariant inside the tree. It signals a bug in the tree, callers are not
	// expected to recover from it.
	ErrInvariantViolation = errors.New("invariant violation")
)

// invariantViolation makes a stack-carrying error wrapping ErrInvariantViolation
func invariantViolation(format string, a ...any) error {
	return merry.WrapSkipping(ErrInvariantViolation, 1).Appendf(format, a...)
}
