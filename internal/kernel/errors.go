package kernel

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the kernel. Callers should use errors.Is to
// check for these, since some are wrapped with additional context via
// fmt.Errorf("...: %w", err).
var (
	// ErrUnsafeMutation is returned when a caller attempts a privileged
	// AddEntity/RemoveEntity call while a phase is in progress. Collaborators
	// must use the RequestSpawn/RequestRemove queue during a tick.
	ErrUnsafeMutation = errors.New("kernel: unsafe direct mutation during an active phase")

	// ErrMutationLock names the condition of EntityManager.Add/Remove being
	// called without the internal flag while mutations are locked
	// (ENTITY_ACT). EntityManager reports that case as a false return and
	// does not return this error.
	ErrMutationLock = errors.New("kernel: entity manager is mutation-locked")

	// ErrSetup is returned by Setup when a WorldPack fails to wire a
	// required system, or when its declared KernelAPIVersion constraint is
	// not satisfied by the running kernel.
	ErrSetup = errors.New("kernel: setup failed")

	// ErrInvariantViolation is returned when FRAME_END observes a
	// non-empty mutation queue, or when debug assertions detect identity
	// or spatial index drift.
	ErrInvariantViolation = errors.New("kernel: invariant violation")

	// ErrSystemFailure wraps an error or recovered panic raised by a
	// System's Update method.
	ErrSystemFailure = errors.New("kernel: system failure")
)

// wrapSystemFailure turns a recovered panic value from phase into an
// ErrSystemFailure-wrapped error.
func wrapSystemFailure(phase Phase, recovered any) error {
	if err, ok := recovered.(error); ok {
		return fmt.Errorf("%w: phase %s: %w", ErrSystemFailure, phase, err)
	}
	return fmt.Errorf("%w: phase %s: %v", ErrSystemFailure, phase, recovered)
}
