package data

import "errors"

// Sentinel errors. Callers test them with errors.Is; the returned errors wrap
// them with the path or parse detail.
var (
	ErrSnapshotNotFound  = errors.New("snapshot file not found")
	ErrSnapshotMalformed = errors.New("snapshot file malformed")
	ErrEquityNotFound    = errors.New("equity curve file not found")
)
