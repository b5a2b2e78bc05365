// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// ChangeAction is the kind of change a commit applied to a single file.
type ChangeAction string

const (
	ActionModified ChangeAction = "modified"
	ActionAdded    ChangeAction = "added"
	ActionRemoved  ChangeAction = "removed"
	ActionRenamed  ChangeAction = "renamed"
)

// ParseAction maps a status string reported by the API to a ChangeAction.
// Statuses outside the known set (e.g. "changed", "copied") fold into
// ActionModified so their line counts stay in the totals.
func ParseAction(status string) ChangeAction {
	switch ChangeAction(status) {
	case ActionAdded, ActionRemoved, ActionRenamed:
		return ChangeAction(status)
	default:
		return ActionModified
	}
}

// FileChange is one file touched by a commit.
type FileChange struct {
	Path      string       `json:"path"`
	Action    ChangeAction `json:"action"`
	Additions int          `json:"additions"`
	Deletions int          `json:"deletions"`
}

// CommitRef identifies one commit by its content hash. AuthoredAt is the
// authorship timestamp, which is what the report window filters on.
type CommitRef struct {
	SHA        string    `json:"sha"`
	AuthoredAt time.Time `json:"authored_at"`
}

// Commit is a commit together with its classified file changes.
type Commit struct {
	CommitRef
	Files []FileChange `json:"files"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window: inclusive of Start,
// exclusive of End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
