package pubmirror

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/pubmirror/internal/version"
	"github.com/arthur-debert/pubmirror/pkg/commands/genconfig"
	"github.com/arthur-debert/pubmirror/pkg/commands/mirror"
	"github.com/arthur-debert/pubmirror/pkg/commands/paths"
	"github.com/arthur-debert/pubmirror/pkg/dispatcher"
	"github.com/arthur-debert/pubmirror/pkg/errors"
	"github.com/arthur-debert/pubmirror/pkg/filesystem"
	"github.com/arthur-debert/pubmirror/pkg/output"
	"github.com/arthur-debert/pubmirror/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// uploaderFactory replaces the S3 client factory of the mirror command.
// Nil means S3.
var uploaderFactory mirror.FactoryFunc

func newMirrorCmd() *cobra.Command {
	var (
		opts         types.MirrorOptions
		deleteTarget string
		metricsFile  string
	)

	cmd := &cobra.Command{
		Use:     "mirror <destination>",
		Short:   MsgMirrorShort,
		Long:    MsgMirrorLong,
		Example: MsgMirrorExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := readGlobals(cmd)

			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("concurrency") {
				if opts.Concurrency <= 0 {
					return errors.Newf(errors.ErrInvalidInput, MsgErrConcurrency, opts.Concurrency)
				}
				overrides["upload.concurrency"] = opts.Concurrency
			}

			target := types.DeleteTarget(deleteTarget)
			if !target.Valid() {
				return errors.Newf(errors.ErrInvalidInput, MsgErrDeleteTarget,
					types.DeleteSource, types.DeleteDestination, deleteTarget)
			}

			cfg, err := loadConfig(g, overrides)
			if err != nil {
				return err
			}

			opts.Destination = args[0]
			opts.DeleteTarget = target
			opts.Concurrency = cfg.Upload.Concurrency
			opts.DryRun = g.dryRun

			log.Info().
				Str("destination", opts.Destination).
				Str("appRoot", cfg.AppRoot).
				Bool("dryRun", opts.DryRun).
				Msg("Running mirror")

			out := cmd.OutOrStdout()
			reporter := output.NewReporter(out, g.verbosity >= 1, false)

			result, err := mirror.Run(cmd.Context(), mirror.RunOptions{
				Config:          cfg,
				Options:         opts,
				Reporter:        reporter,
				UploaderFactory: uploaderFactory,
				MetricsFile:     metricsFile,
			})
			if err != nil {
				return err
			}

			if g.verbosity >= 1 && result.Mirror != nil {
				mutated := result.Mirror.Mutations()
				fmt.Fprintf(out, MsgEntryCounts, mutated, len(result.Mirror.Entries)-mutated)
			}
			if result.IndexRewritten {
				fmt.Fprintf(out, MsgIndexRewritten, cfg.Index.File)
			}
			if result.Upload != nil {
				fmt.Fprintf(out, MsgUploadCounts, result.Upload.Files, result.Upload.Bytes, result.Upload.Batches)
			}
			if result.Removed {
				fmt.Fprintf(out, MsgDestRemoved, result.Mirror.Destination)
			}
			if opts.DryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.Relative, "relative", "r", false, MsgFlagRelative)
	flags.BoolVarP(&opts.Copy, "copy", "c", false, MsgFlagCopy)
	flags.BoolVarP(&opts.Delete, "delete", "d", false, MsgFlagDelete)
	flags.StringArrayVarP(&opts.Ignore, "ignore", "i", nil, MsgFlagIgnore)
	flags.StringVar(&opts.Disk, "disk", "", MsgFlagDisk)
	flags.IntVar(&opts.Concurrency, "concurrency", types.DefaultConcurrency, MsgFlagConcurrency)
	flags.BoolVar(&opts.Remove, "rm", false, MsgFlagRemove)
	flags.StringVar(&deleteTarget, "delete-target", string(types.DeleteSource), MsgFlagDeleteTarget)
	flags.StringVar(&metricsFile, "metrics-file", "", MsgFlagMetricsFile)

	_ = cmd.RegisterFlagCompletionFunc("delete-target", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(types.DeleteSource), string(types.DeleteDestination)}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("disk", diskCompletion)

	return cmd
}

// diskCompletion offers the configured disk names.
func diskCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadConfig(readGlobals(cmd), nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, name := range cfg.DiskNames() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "paths",
		Short:   MsgPathsShort,
		Long:    MsgPathsLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(readGlobals(cmd), nil)
			if err != nil {
				return err
			}

			result := paths.List(paths.ListOptions{
				Config: cfg,
				FS:     filesystem.NewOS(),
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatBold(fmt.Sprintf(MsgPathsHeader, result.AppRoot)))
			if len(result.Entries) == 0 {
				fmt.Fprintln(out, MsgNoEntries)
				return nil
			}
			for _, entry := range result.Entries {
				missing := ""
				if !entry.Exists {
					missing = MsgPathsMissing
				}
				fmt.Fprintf(out, MsgPathsItem, entry.Kind, entry.Entry, missing)
			}
			return nil
		},
	}
}

func newDispatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dispatch <event> [args...]",
		Short:   MsgDispatchShort,
		Long:    MsgDispatchLong,
		GroupID: "misc",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatcher.Default.Dispatch(cmd.Context(), dispatcher.EventType(args[0]), args[1:])
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	var (
		format    string
		effective bool
		write     bool
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(readGlobals(cmd), nil)
			if err != nil {
				return err
			}

			result, err := genconfig.GenConfig(genconfig.GenConfigOptions{
				AppRoot:   cfg.AppRoot,
				Format:    format,
				Effective: effective,
				Config:    cfg,
				Write:     write,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !write {
				fmt.Fprint(out, result.ConfigContent)
				return nil
			}
			if len(result.FilesWritten) == 0 {
				fmt.Fprintf(out, MsgConfigExists, genconfig.ProjectFile)
				return nil
			}
			for _, path := range result.FilesWritten {
				fmt.Fprintf(out, MsgConfigWritten, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", genconfig.FormatTOML, MsgFlagFormat)
	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{genconfig.FormatTOML, genconfig.FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "PUBMIRROR",
				Section: "1",
				Source:  "pubmirror " + version.Version,
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
