// Package console is the command-line front end: serve the application,
// or boot it and list its routes and beans.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/km-arc/go-mvc/framework/app"
	"github.com/km-arc/go-mvc/framework/beans"
	"github.com/km-arc/go-mvc/framework/config"
	"github.com/km-arc/go-mvc/framework/diag"
	"github.com/km-arc/go-mvc/framework/logging"
)

type options struct {
	catalog   *beans.Catalog
	envFiles  []string
	configDir string
	strict    bool
	quiet     bool
}

// NewRootCommand creates the root command over the beans in catalog.
func NewRootCommand(catalog *beans.Catalog) *cobra.Command {
	opts := &options{catalog: catalog}

	rootCmd := &cobra.Command{
		Use:   "gomvc",
		Short: "Miniature IoC container with HTTP routing",
		Long: color.CyanString(`GoMVC scans a namespace for controller and service beans,
wires them together and serves their request mappings over HTTP.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load (default .env)")
	flags.StringVar(&opts.configDir, "config-dir", ".", "directory holding application.properties")
	flags.BoolVar(&opts.strict, "strict", false, "abort boot on scan, instantiation and injection issues")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newRoutesCommand(opts))
	rootCmd.AddCommand(newBeansCommand(opts))
	rootCmd.AddCommand(NewVersionCommand())
	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)
			title.Fprint(w, "GoMVC version: ")
			fmt.Fprintln(w, app.Version)
			title.Fprint(w, "Go version: ")
			fmt.Fprintln(w, runtime.Version())
		},
	}
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Boot the application and serve HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.boot(cmd)
			if err != nil {
				return err
			}
			cfg := a.Config
			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(),
				"🚀  %s running on http://localhost%s%s  [%s]\n",
				cfg.App.Name, cfg.Addr(), cfg.App.ContextPath, cfg.App.Env)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
}

func newRoutesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Boot the application and list its routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.quiet = true
			a, err := opts.boot(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := color.New(color.FgCyan, color.Bold)
			header.Fprintln(tw, "PATH\tHANDLER\tPARAMS")
			for _, e := range a.Routes() {
				fmt.Fprintf(tw, "%s%s\t%s.%s\t%s\n",
					a.Config.App.ContextPath, e.Path, e.Bean, e.Handler.Method,
					strings.Join(e.Handler.Params(), ","))
			}
			return tw.Flush()
		},
	}
}

func newBeansCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "beans",
		Short: "Boot the application and list its beans",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.quiet = true
			a, err := opts.boot(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := color.New(color.FgCyan, color.Bold)
			header.Fprintln(tw, "NAME\tROLE\tTYPE")
			for _, b := range a.Beans() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Name, b.Role, b.TypeID)
			}
			return tw.Flush()
		},
	}
}

// boot loads configuration, builds the logger and boots the application,
// printing any init issues to stderr.
func (o *options) boot(cmd *cobra.Command) (*app.Application, error) {
	cfg, err := config.LoadFrom(o.configDir, o.envFiles...)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("strict") {
		cfg.Boot.Strict = o.strict
	}

	logger := zap.NewNop()
	if !o.quiet {
		if logger, err = logging.New(cfg); err != nil {
			return nil, err
		}
	}

	a := app.New(cfg, logger, o.catalog)
	report, err := a.Boot()
	printIssues(cmd.ErrOrStderr(), report)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func printIssues(w io.Writer, report *diag.Report) {
	if report == nil || report.Empty() {
		return
	}
	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprintf(w, "%d boot issue(s):\n", len(report.Issues()))
	for _, issue := range report.Issues() {
		fmt.Fprintf(w, "  • %s\n", issue)
	}
}
