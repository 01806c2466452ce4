package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"muko/config"
	"muko/core"
	"muko/data"
	"muko/logger"
	"muko/resolver"
)

var errCancelled = errors.New("operation cancelled")

// Deps contains the collaborators the CLI invokes.
type Deps struct {
	// DNS
	NewLookuper func(cfg *config.Config) core.Lookuper

	// Privilege escalation, re-runs the command with the given args
	Escalate func(args []string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultDeps wires the real resolver, sudo and the process stdio.
func DefaultDeps() Deps {
	return Deps{
		NewLookuper: func(cfg *config.Config) core.Lookuper {
			return resolver.New(cfg.Nameserver, cfg.Timeout)
		},
		Escalate: core.Escalate,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Runner encapsulates CLI execution.
type Runner struct {
	Deps Deps

	args       []string
	configFile string
	v          *viper.Viper
	cfg        *config.Config
	log        *zap.Logger
}

// Execute builds the cobra command tree and runs it with args.
// Returns process exit code (0 = success).
func (r *Runner) Execute(ctx context.Context, args []string) int {
	r.args = args
	r.v = viper.New()

	rootCmd := r.newRootCmd()
	rootCmd.AddCommand(
		r.newAddCmd(),
		r.newModeCmd(data.ModeDev),
		r.newModeCmd(data.ModeProd),
		r.newListCmd(),
		r.newVersionCmd(),
	)

	rootCmd.SetArgs(args)
	rootCmd.SetIn(r.Deps.Stdin)
	rootCmd.SetOut(r.Deps.Stdout)
	rootCmd.SetErr(r.Deps.Stderr)

	err := rootCmd.ExecuteContext(ctx)
	if r.log != nil {
		_ = r.log.Sync()
	}
	if err != nil {
		fmt.Fprintf(r.Deps.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// Root: prints the report when no subcommand is specified.
func (r *Runner) newRootCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "muko",
		Short: "A command-line utility to manage host file entries",
		Long: fmt.Sprintf(`muko v%s - switch domains between a local override and production DNS

Without a subcommand, lists muko-managed domains with their production IPs.
Modifying the hosts file requires elevated permissions.`, data.Version()),
		Args:              cobra.NoArgs,
		PersistentPreRunE: r.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.report(cmd.Context(), asJSON)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&r.configFile, "config", "c", "", "Path to configuration file (default $HOME/.config/muko/config.yaml)")
	pf.String("hosts-file", core.HostsPath(), "Hosts file to manage")
	pf.String("nameserver", "", "Resolve production IPs against this DNS server (host[:port]) instead of the system resolver")
	pf.Duration("timeout", config.Default().Timeout, "Timeout of a single DNS lookup")
	pf.Int("retries", core.DefaultRetryPolicy.Attempts, "DNS lookup attempts per PROD domain")
	pf.Duration("retry-delay", core.DefaultRetryPolicy.Delay, "Pause between DNS lookup attempts")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")

	for key, name := range map[string]string{
		config.KeyHostsFile:     "hosts-file",
		config.KeyNameserver:    "nameserver",
		config.KeyTimeout:       "timeout",
		config.KeyRetryAttempts: "retries",
		config.KeyRetryDelay:    "retry-delay",
		config.KeyLogLevel:      "log-level",
	} {
		_ = r.v.BindPFlag(key, pf.Lookup(name))
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func (r *Runner) setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(r.v, r.configFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	r.cfg = cfg
	r.log = log
	r.log.Debug("configuration loaded",
		zap.String("hostsFile", cfg.HostsFile),
		zap.String("nameserver", cfg.Nameserver),
		zap.Int("attempts", cfg.Retry.Attempts),
		zap.Duration("delay", cfg.Retry.Delay))
	return nil
}

// add subcommand
func (r *Runner) newAddCmd() *cobra.Command {
	var ip, alias string

	cmd := &cobra.Command{
		Use:   "add <domain>",
		Short: "Add a domain to the hosts file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]
			if alias == "" {
				alias = domain
			}
			if err := core.ValidateEntry(domain, ip, alias); err != nil {
				return err
			}

			lines, err := r.readLines()
			if err != nil {
				return err
			}
			out, replaced := core.AddDomain(lines, domain, ip, alias)

			if escalated, err := r.ensureWritable(); err != nil || escalated {
				return err
			}
			if err := r.writeLines(out); err != nil {
				return err
			}

			w := r.Deps.Stdout
			if replaced {
				fmt.Fprintf(w, "✓ Domain '%s' already existed and has been overwritten\n", domain)
			} else {
				fmt.Fprintf(w, "✓ Domain '%s' has been added to %s\n", domain, r.cfg.HostsFile)
			}
			fmt.Fprintf(w, "  %s\n\n", out[len(out)-1])
			return r.printReport(cmd.Context(), out, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&ip, "ip", "127.0.0.1", "IP address for the entry")
	cmd.Flags().StringVar(&alias, "alias", "", "Alias for the domain (defaults to the domain)")
	return cmd
}

// dev and prod subcommands
func (r *Runner) newModeCmd(mode data.Mode) *cobra.Command {
	use, short := "dev <domain|alias>", "Set a domain to DEV mode (uncomment to use custom IP)"
	if mode == data.ModeProd {
		use, short = "prod <domain|alias>", "Set a domain to PROD mode (comment out to use real IP)"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identifier := args[0]

			lines, err := r.readLines()
			if err != nil {
				return err
			}
			out, err := core.SetMode(lines, identifier, mode)
			if err != nil {
				return err
			}

			if escalated, err := r.ensureWritable(); err != nil || escalated {
				return err
			}
			if err := r.writeLines(out); err != nil {
				return err
			}

			fmt.Fprintf(r.Deps.Stdout, "✓ Set '%s' to %s mode\n\n", identifier, mode)
			return r.printReport(cmd.Context(), out, false)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}

// list subcommand
func (r *Runner) newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List muko-managed domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.report(cmd.Context(), asJSON)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

// version subcommand
func (r *Runner) newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(r.Deps.Stdout, "muko v%s\n", data.Version())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return cmd
}

func (r *Runner) report(ctx context.Context, asJSON bool) error {
	lines, err := r.readLines()
	if err != nil {
		return err
	}
	return r.printReport(ctx, lines, asJSON)
}

func (r *Runner) printReport(ctx context.Context, lines []string, asJSON bool) error {
	reporter := core.NewReporter(r.Deps.NewLookuper(r.cfg), r.cfg.Retry.Policy(), r.log)
	entries, err := reporter.Report(ctx, lines)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(r.Deps.Stdout, entries)
	}
	fmt.Fprintln(r.Deps.Stdout, "Muko-managed domains:")
	renderTable(r.Deps.Stdout, entries, isTerminal(r.Deps.Stdout))
	return nil
}

func (r *Runner) readLines() ([]string, error) {
	lines, err := core.ReadLines(r.cfg.HostsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts: %w", err)
	}
	r.log.Debug("hosts file read", zap.String("path", r.cfg.HostsFile), zap.Int("lines", len(lines)))
	return lines, nil
}

func (r *Runner) writeLines(lines []string) error {
	if err := core.WriteLines(r.cfg.HostsFile, lines); err != nil {
		return fmt.Errorf("failed to write hosts: %w", err)
	}
	r.log.Debug("hosts file written", zap.String("path", r.cfg.HostsFile), zap.Int("lines", len(lines)))
	return nil
}

// ensureWritable offers to re-run the command under sudo when the hosts file
// cannot be written. escalated is true when the elevated run took over.
func (r *Runner) ensureWritable() (escalated bool, err error) {
	path := r.cfg.HostsFile
	// Root gets the real write error instead of a prompt.
	if core.Writable(path) || core.CheckRootPrivileges() {
		return false, nil
	}

	fmt.Fprintf(r.Deps.Stdout, "You need to escalate privileges to modify %s.\n", path)
	if !core.YesNoPrompt(r.Deps.Stdin, r.Deps.Stdout, "Do you want to escalate privileges now? (y/n) ") {
		return false, fmt.Errorf("%w: %s is not writable", errCancelled, path)
	}

	// sudo may reset HOME and MUKO_* variables, so pin the resolved path.
	args := append([]string{"--hosts-file", path}, r.args...)
	if err := r.Deps.Escalate(args); err != nil {
		return false, fmt.Errorf("escalation failed: %w", err)
	}
	return true, nil
}
