package client

// Notifier receives the transient outcome of every mutating operation.
// Read operations fail quietly through the stores' error fields instead.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string) {}
