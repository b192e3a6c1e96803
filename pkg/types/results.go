package types

// EntryKind tells how a catalog entry was declared.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
	KindWildcard  EntryKind = "wildcard"
)

// Outcome is the terminal state of a catalog entry in a run.
type Outcome string

const (
	OutcomeLinked         Outcome = "linked"
	OutcomeCopied         Outcome = "copied"
	OutcomeDeleted        Outcome = "deleted"
	OutcomeSkippedMissing Outcome = "skipped-missing-source"
	OutcomeSkippedExists  Outcome = "skipped-exists"
	OutcomeSkippedIgnored Outcome = "skipped-ignored"
)

// Skipped reports whether the outcome left the filesystem untouched.
func (o Outcome) Skipped() bool {
	switch o {
	case OutcomeSkippedMissing, OutcomeSkippedExists, OutcomeSkippedIgnored:
		return true
	}
	return false
}

// EntryResult records what happened to one catalog entry.
type EntryResult struct {
	// Entry is the catalog path relative to the application root. For
	// wildcard entries it is the expanded path.
	Entry string
	Kind  EntryKind

	// Source and Destination are the resolved absolute paths.
	Source      string
	Destination string

	Outcome Outcome

	// Files counts the individual files linked, copied or removed beneath a
	// directory entry.
	Files int
}

// MirrorResult aggregates the entry results of a run.
type MirrorResult struct {
	Destination string
	Mode        string
	DryRun      bool
	Entries     []EntryResult
}

// Add appends an entry result.
func (r *MirrorResult) Add(entry EntryResult) {
	r.Entries = append(r.Entries, entry)
}

// Count returns how many entries ended with the given outcome.
func (r *MirrorResult) Count(outcome Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == outcome {
			n++
		}
	}
	return n
}

// Mutations returns the number of entries that changed the filesystem.
func (r *MirrorResult) Mutations() int {
	n := 0
	for _, e := range r.Entries {
		if !e.Outcome.Skipped() {
			n++
		}
	}
	return n
}

// Find returns the result for a catalog entry, if present.
func (r *MirrorResult) Find(entry string) (EntryResult, bool) {
	for _, e := range r.Entries {
		if e.Entry == entry {
			return e, true
		}
	}
	return EntryResult{}, false
}
