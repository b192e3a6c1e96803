package pubmirror

import (
	"fmt"

	"github.com/arthur-debert/pubmirror/internal/version"
	"github.com/arthur-debert/pubmirror/pkg/config"
	"github.com/arthur-debert/pubmirror/pkg/logging"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity  int
		dryRun     bool
		appRoot    string
		configFile string
	)

	rootCmd := &cobra.Command{
		Use:     "pubmirror",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			logging.LogCommand(cmd.CommandPath(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&appRoot, "app-root", "", MsgFlagAppRoot)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "config",
		Title: "CONFIGURATION:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetCompletionCommandGroupID("misc")

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newMirrorCmd())
	rootCmd.AddCommand(newPathsCmd())
	rootCmd.AddCommand(newDispatchCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// globals are the persistent root flags as seen by a subcommand.
type globals struct {
	verbosity  int
	dryRun     bool
	appRoot    string
	configFile string
}

func readGlobals(cmd *cobra.Command) globals {
	flags := cmd.Root().PersistentFlags()
	verbosity, _ := flags.GetCount("verbose")
	dryRun, _ := flags.GetBool("dry-run")
	appRoot, _ := flags.GetString("app-root")
	configFile, _ := flags.GetString("config")
	return globals{
		verbosity:  verbosity,
		dryRun:     dryRun,
		appRoot:    appRoot,
		configFile: configFile,
	}
}

// loadConfig loads the layered configuration for a command. Overrides are
// flat dotted keys set from flags.
func loadConfig(g globals, overrides map[string]interface{}) (*config.Config, error) {
	return config.LoadConfiguration(config.LoadOptions{
		AppRoot:    g.appRoot,
		ConfigFile: g.configFile,
		Overrides:  overrides,
	})
}
