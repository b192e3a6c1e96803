package pubmirror

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Mirror the public parts of an application into a web root"
	MsgMirrorShort     = "Link, copy, delete or upload the catalog"
	MsgPathsShort      = "List the effective catalog"
	MsgPathsLong       = "Paths prints every catalog entry with its wildcards expanded against the application root, marking the ones whose source is missing."
	MsgGenConfigShort  = "Print or write the configuration"
	MsgDispatchShort   = "Dispatch a host event"
	MsgDispatchLong    = "Dispatch routes a host event to its registered handler. A stock build registers none, so every event is unknown."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Status messages
	MsgDryRunNotice   = "\nDRY RUN MODE - No changes were made"
	MsgEntryCounts    = "%d mirrored, %d skipped\n"
	MsgUploadCounts   = "Uploaded %d files (%d bytes) in %d batches\n"
	MsgDestRemoved    = "Removed %s\n"
	MsgIndexRewritten = "Rewrote %s\n"
	MsgPathsHeader    = "Catalog for %s"
	MsgPathsItem      = "  %-9s %s%s\n"
	MsgPathsMissing   = " (missing)"
	MsgConfigWritten  = "Wrote %s\n"
	MsgConfigExists   = "%s already exists, nothing written\n"
	MsgVersionFormat  = "pubmirror version %s\n  commit: %s\n  built:  %s\n"
	MsgNoEntries      = "No catalog entries."

	// Error messages
	MsgErrConcurrency  = "--concurrency must be a positive integer, got %d"
	MsgErrDeleteTarget = "--delete-target must be %q or %q, got %q"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun       = "Preview changes without executing them"
	MsgFlagAppRoot      = "Application root (default: app_root from config, then the working directory)"
	MsgFlagConfig       = "Config file to use instead of <app-root>/.pubmirror.toml"
	MsgFlagRelative     = "Create relative symlinks"
	MsgFlagCopy         = "Copy files instead of linking them"
	MsgFlagDelete       = "Remove catalog entries instead of mirroring them"
	MsgFlagIgnore       = "Regular expression of source paths to skip (repeatable)"
	MsgFlagDisk         = "Upload the mirror to this configured disk"
	MsgFlagConcurrency  = "Uploads in flight at once (default from config, 25)"
	MsgFlagRemove       = "Remove the destination before the run and again after it"
	MsgFlagDeleteTarget = "Side removed by --delete: source or destination"
	MsgFlagMetricsFile  = "Write Prometheus metrics of the run to this file"
	MsgFlagFormat       = "Output format: toml or yaml"
	MsgFlagEffective    = "Print the loaded configuration instead of the defaults"
	MsgFlagWrite        = "Write .pubmirror.toml in the application root"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/mirror-long.txt
	msgMirrorLongRaw string
	MsgMirrorLong    = strings.TrimSpace(msgMirrorLongRaw)

	//go:embed msgs/mirror-example.txt
	msgMirrorExampleRaw string
	MsgMirrorExample    = strings.TrimRight(msgMirrorExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
