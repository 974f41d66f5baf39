package types

// SnapshotRef identifies one numbered, timestamped snapshot artifact
type SnapshotRef struct {
	// Number is the per-profile sequence number, starting at 1 and
	// monotonically increasing. Numbers are never reused.
	Number int

	// Timestamp is the creation wall-clock time encoded in the artifact
	// name, second resolution (format 20060102-150405)
	Timestamp string

	// Path is the absolute path of the snapshot file
	Path string
}

// BackupStatus is the explicit backup lifecycle state returned by the
// backup guard, replacing ad-hoc file-existence checks at call sites.
type BackupStatus int

const (
	// BackupAbsent means no pre-mutation backup exists for the profile
	BackupAbsent BackupStatus = iota
	// BackupPresent means the one-time backup exists and is the "original"
	// baseline for diff and restore
	BackupPresent
)

// BackupState couples the lifecycle status with the artifact reference
type BackupState struct {
	Status BackupStatus

	// Path is the backup artifact path; only meaningful when Status is
	// BackupPresent
	Path string
}

// RestoreRef is a parsed restore target: a snapshot number or the
// "original" sentinel naming the pre-first-deploy backup.
type RestoreRef struct {
	Original bool
	Number   int
}
