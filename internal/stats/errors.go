package stats

import "errors"

// Registry authoring defects. NewRegistry reports them, MustRegistry panics.
var (
	ErrDuplicateStat     = errors.New("duplicate stat id")
	ErrInvalidLayer      = errors.New("invalid layer")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrMissingCompute    = errors.New("derived stat has no compute")
	ErrBaseCompute       = errors.New("base stat must not have a compute")
	ErrForwardDependency = errors.New("dependency is not evaluated before the stat")
	ErrUndeclaredRead    = errors.New("compute reads an undeclared stat")
	ErrInvalidChoice     = errors.New("source choice is not a declared dependency")
)

// Override validation errors.
var (
	ErrUnknownStat     = errors.New("unknown stat")
	ErrInvalidOverride = errors.New("invalid override")
	ErrUnknownParam    = errors.New("unknown parameter")
	ErrDisallowedValue = errors.New("value is not an allowed choice")
)

// ErrNonFinite reports an input or a computed value that is NaN or infinite.
var ErrNonFinite = errors.New("value is not finite")
