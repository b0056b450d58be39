package study

import "fmt"

// Status is the lifecycle state of a study session.
type Status int

const (
	StatusIdle        Status = iota // nothing loaded, or the last load failed
	StatusLoading                   // queue fetch in progress
	StatusReady                     // non-empty queue loaded, not started
	StatusEmpty                     // queue loaded but empty
	StatusStudying                  // session running
	StatusCompleted                 // every card answered; terminal
	StatusInterrupted               // stopped early by the user; terminal
)

var statusNames = [...]string{
	StatusIdle:        "idle",
	StatusLoading:     "loading",
	StatusReady:       "ready",
	StatusEmpty:       "empty",
	StatusStudying:    "studying",
	StatusCompleted:   "completed",
	StatusInterrupted: "interrupted",
}

// String returns the lowercase name of the status.
// For invalid values it returns "Status(n)".
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether the session has ended; a fresh session
// requires a new load.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusInterrupted
}
