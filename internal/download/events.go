package download

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent is a human-readable status update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// TransferUpdate reports the byte progress of a single transfer.
// The last update of a transfer has Done set.
type TransferUpdate struct {
	TrackID string
	Written int64
	Total   int64 // -1 when the server did not declare a size
	Done    bool
}

// ConfirmFunc decides whether an existing file at path may be overwritten.
type ConfirmFunc func(path string) bool
