package content

// Result is the outcome of an extraction that never fails.
// When Err is set, Content holds the fallback placeholder and Err the cause.
type Result[T any] struct {
	Content T
	Err     error
}

// Fallback reports whether Content is a placeholder
func (r Result[T]) Fallback() bool {
	return r.Err != nil
}
