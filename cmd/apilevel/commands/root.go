// Package commands implements the CLI commands for apilevel.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/apilevel/internal/adapters/config"
	"go.trai.ch/apilevel/internal/adapters/detector"
	"go.trai.ch/apilevel/internal/adapters/logger"
	"go.trai.ch/apilevel/internal/adapters/telemetry"
	"go.trai.ch/apilevel/internal/app"
	"go.trai.ch/apilevel/internal/build"
)

// Application represents the application logic interface.
type Application interface {
	Query(ctx context.Context, opts app.Options, queries ...app.Query) ([]app.Answer, error)
	Warm(ctx context.Context, opts app.Options, extra ...string) ([]app.WarmResult, error)
	Clean(ctx context.Context, opts app.Options, extra ...string) ([]string, error)
	Dump(ctx context.Context, opts app.Options, w io.Writer) error
	Watch(ctx context.Context, opts app.Options, onChange func(paths []string)) error
}

// CLI represents the command line interface for apilevel.
type CLI struct {
	app      Application
	logger   *logger.Logger
	rootCmd  *cobra.Command
	flags    rootFlags
	shutdown func(context.Context) error
}

type rootFlags struct {
	config     string
	client     string
	descriptor string
	platform   string
	cacheDir   string
	color      string
	json       bool
	trace      bool
}

// New creates a new CLI instance with the given app and logger.
func New(a Application, log *logger.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "apilevel",
		Short:         "Look up the Android API level of classes, fields and methods",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.flags.descriptor, "descriptor", "d", "", "Path to the API descriptor (api-versions.xml or .yaml)")
	pf.StringVarP(&c.flags.platform, "platform", "p", "", "Platform version the database is built for, e.g. android-34")
	pf.StringVar(&c.flags.cacheDir, "cache-dir", "", "Directory holding the binary API databases")
	pf.StringVarP(&c.flags.config, "config", "c", "", "Path to apilevel.yaml (default: discovered from the working directory)")
	pf.StringVar(&c.flags.client, "client", "", "Client identity the database is memoized under")
	pf.StringVar(&c.flags.color, "color", detector.ColorAuto, "Color output: auto, always or never")
	pf.BoolVar(&c.flags.json, "json", false, "Write results and diagnostics as JSON")
	pf.BoolVar(&c.flags.trace, "trace", false, "Log a line for every database load and build")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		c.logger.SetColorProfile(c.colorMode(cmd.ErrOrStderr()).Profile())
		c.logger.SetJSON(c.flags.json)
		if c.flags.trace && c.shutdown == nil {
			c.shutdown = telemetry.InstallLogProvider(c.logger)
		}
	}

	rootCmd.AddCommand(c.newLookupCmds()...)
	rootCmd.AddCommand(c.newQueryCmd())
	rootCmd.AddCommand(c.newDumpCmd())
	rootCmd.AddCommand(c.newWarmCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		_ = c.shutdown(context.WithoutCancel(ctx))
		c.shutdown = nil
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetInput sets the input stream for the root command. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// colorMode resolves the --color flag against the environment of w.
func (c *CLI) colorMode(w io.Writer) detector.OutputMode {
	return detector.ResolveMode(detector.DetectEnvironment(w), c.flags.color)
}

func (c *CLI) options() app.Options {
	return app.Options{
		ConfigPath: c.flags.config,
		Overrides: config.Overrides{
			ClientID:   c.flags.client,
			Descriptor: c.flags.descriptor,
			Platform:   c.flags.platform,
			CacheDir:   c.flags.cacheDir,
		},
	}
}
