package domain

import "time"

// SyncStatus is the state shown in the page's status region.
type SyncStatus string

const (
	// SyncStatusIdle means no sync cycle has completed yet.
	SyncStatusIdle SyncStatus = "idle"

	// SyncStatusSynced means the remote batch matched the local quotes.
	SyncStatusSynced SyncStatus = "synced"

	// SyncStatusConflict means the remote batch differed and replaced the local quotes.
	SyncStatusConflict SyncStatus = "conflict"

	// SyncStatusFailed means the cycle could not fetch or apply the remote batch.
	SyncStatusFailed SyncStatus = "failed"
)

// Message returns the human-readable status line.
func (s SyncStatus) Message() string {
	switch s {
	case SyncStatusSynced:
		return "Quotes synced with server."
	case SyncStatusConflict:
		return "Conflict detected: server data replaced local quotes."
	case SyncStatusFailed:
		return "Sync failed."
	default:
		return "Not synced yet."
	}
}

// SyncReport describes the outcome of one sync cycle.
type SyncReport struct {
	Status      SyncStatus `json:"status"`
	Message     string     `json:"message"`
	LocalCount  int        `json:"localCount"`
	RemoteCount int        `json:"remoteCount"`
	Error       string     `json:"error,omitempty"`
	At          time.Time  `json:"at"`
}
