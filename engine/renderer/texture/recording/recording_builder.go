package recording

// BackendOption is a functional option used to configure a Backend during construction.
type BackendOption func(*Backend)

// WithFailure makes the n-th call (1-based) of the given kind fail with err. The call is still recorded.
//
// Parameters:
//   - kind: the call kind to fail
//   - n: the 1-based index of the failing call
//   - err: the error to return
//
// Returns:
//   - BackendOption: a function that applies the failure to a backend
func WithFailure(kind CallKind, n int, err error) BackendOption {
	return func(b *Backend) {
		b.failures[kind] = failure{n: n, err: err}
	}
}
