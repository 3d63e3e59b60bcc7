package practice

import "time"

// opDoneMsg is sent when a machine operation run off the UI loop returns.
type opDoneMsg struct {
	Op string
}

// spinnerTickMsg animates the busy indicator.
type spinnerTickMsg time.Time
