package trace

import "github.com/ardnew/jsviz/lang"

// Predefined errors.
var (
	ErrCondition    = lang.NewError("invalid condition")
	ErrConditionMet = lang.NewError("halt condition met")
	ErrStopped      = lang.NewError("stopped")
	ErrEncoding     = lang.NewError("unsupported trace encoding")
)
