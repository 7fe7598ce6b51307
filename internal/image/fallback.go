package imagepkg

import "github.com/emontenegrop/carnet-estudiantil/internal/logger"

// Fallback is one row of a resource table: run Attempt, and when it fails
// log Warning and use Default instead. A nil Default yields the zero value.
type Fallback[T any] struct {
	Resource string
	Attempt  func() (T, error)
	Default  func() T
	Warning  string
}

// Resolve never fails. The bool reports whether Attempt succeeded.
func (f Fallback[T]) Resolve(log *logger.Logger) (T, bool) {
	v, err := f.Attempt()
	if err == nil {
		return v, true
	}
	if log != nil {
		log.Warn(f.Warning, "resource", f.Resource, "error", err)
	}
	if f.Default != nil {
		return f.Default(), false
	}
	var zero T
	return zero, false
}
