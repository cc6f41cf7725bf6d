package ports

// Executor runs functions on a particular execution context
// (the render thread, a notification loop, or the caller itself).
type Executor interface {
	// Submit schedules fn. It must not block; false means fn was not accepted.
	Submit(fn func()) bool
}
