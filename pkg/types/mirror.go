package types

// DefaultConcurrency is the number of uploads admitted per batch when the
// caller does not choose one.
const DefaultConcurrency = 25

// DeleteTarget selects which side of a catalog entry teardown removes.
type DeleteTarget string

const (
	// DeleteSource removes the application-side path of each entry.
	DeleteSource DeleteTarget = "source"

	// DeleteDestination removes the mirrored path under the destination root.
	DeleteDestination DeleteTarget = "destination"
)

// Valid reports whether t is a recognized delete target.
func (t DeleteTarget) Valid() bool {
	return t == DeleteSource || t == DeleteDestination
}

// MirrorOptions configures a single mirror, teardown or upload run.
type MirrorOptions struct {
	// Destination is the raw destination argument, relative to the
	// application root or absolute.
	Destination string

	// Relative produces relative symlink targets instead of absolute ones.
	Relative bool

	// Copy performs physical copies instead of creating symlinks.
	Copy bool

	// Delete removes catalog entries instead of mirroring them.
	Delete bool

	// DeleteTarget selects the side removed in delete mode.
	DeleteTarget DeleteTarget

	// Ignore holds regular expressions tested against absolute source paths.
	Ignore []string

	// Disk names a configured storage backend to upload the mirror to.
	Disk string

	// Concurrency bounds the number of uploads in flight.
	Concurrency int

	// Remove deletes the destination root before the run and again after it.
	Remove bool

	// DryRun computes outcomes without touching the filesystem.
	DryRun bool
}

// Mode returns the name of the run for summary lines.
func (o MirrorOptions) Mode() string {
	if o.Delete {
		return "Delete"
	}
	return "Mirror"
}
