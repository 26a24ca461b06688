package client

import "time"

// Result is the outcome of a store operation. Stores never let an error
// escape past their boundary; callers branch on OK and show Message.
type Result struct {
	OK      bool
	Message string
}

func succeeded(message string) Result {
	return Result{OK: true, Message: message}
}

func failed(message string) Result {
	return Result{OK: false, Message: message}
}

// nowFunc is swapped out in tests.
var nowFunc = time.Now
