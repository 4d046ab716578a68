package types

// ID is the stable unique identifier of a content document. IDs are opaque
// strings owned by the content backend.
type ID string

func (i ID) String() string { return string(i) }

type SyncStatus string

const (
	StatusUninitialized SyncStatus = "uninitialized"
	StatusOK            SyncStatus = "ok"
	StatusOffline       SyncStatus = "offline"
	StatusSynchronizing SyncStatus = "synchronizing"
	StatusError         SyncStatus = "error"
)
