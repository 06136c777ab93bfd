package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/atm/internal/accounts"
	"github.com/cleared-dev/atm/internal/config"
	"github.com/cleared-dev/atm/internal/ledger"
	"github.com/cleared-dev/atm/internal/logging"
	"github.com/cleared-dev/atm/internal/runlog"
	"github.com/cleared-dev/atm/internal/script"
)

type runOptions struct {
	configPath  string
	seedPath    string
	accountsOut string
	auditPath   string
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a scenario script against a fresh ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if opts.auditPath != "" {
				cfg.Audit.Enabled = true
				cfg.Audit.Path = opts.auditPath
			}
			return runScript(cmd, cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.FileName, "config file")
	cmd.Flags().StringVar(&opts.seedPath, "seed", "", "accounts CSV to register before the run")
	cmd.Flags().StringVar(&opts.accountsOut, "accounts-out", "", "write the final accounts to this CSV")
	cmd.Flags().StringVar(&opts.auditPath, "audit", "", "append step results to this audit CSV")

	return cmd
}

// loadConfig falls back to defaults when the default config file is absent.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return nil, err
}

func runScript(cmd *cobra.Command, cfg *config.Config, scriptPath string, opts runOptions) error {
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}

	s, err := script.Load(scriptPath)
	if err != nil {
		return err
	}

	l := ledger.New(ledger.WithLogger(logger))
	if opts.seedPath != "" {
		accts, err := accounts.LoadFile(opts.seedPath)
		if err != nil {
			return err
		}
		if err := accounts.Seed(l, accts); err != nil {
			return err
		}
		logger.Info("seeded accounts", "path", opts.seedPath, "count", len(accts))
	}

	if cfg.Export.Dir != "" {
		if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
			return fmt.Errorf("creating export dir: %w", err)
		}
	}

	runner := script.NewRunner(l, cfg.Export.Dir, logger)
	report, runErr := runner.Run(cmd.Context(), s)
	if report == nil {
		return runErr
	}

	printReport(cmd.OutOrStdout(), report)

	if cfg.Audit.Enabled {
		if err := runlog.Append(cfg.Audit.Path, report.Audit); err != nil {
			logger.Warn("failed to write audit log", "path", cfg.Audit.Path, "err", err)
		}
	}

	if opts.accountsOut != "" {
		if err := accounts.SaveFile(opts.accountsOut, l.Accounts()); err != nil {
			return err
		}
	}

	return runErr
}

func printReport(w io.Writer, report *script.Report) {
	pass := color.New(color.FgGreen).Sprint("PASS")
	fail := color.New(color.FgRed).Sprint("FAIL")

	for _, res := range report.Results {
		mark := pass
		if !res.Passed {
			mark = fail
		}
		detail := res.Detail
		if res.Err != nil {
			detail = res.Err.Error()
		}
		fmt.Fprintf(w, "%s %3d %-8s %-16s %s\n", mark, res.Index, res.Op, res.Account, detail)
	}

	status := "passed"
	if !report.Passed() {
		status = "failed"
	}
	fmt.Fprintf(w, "%s: %d steps %s (run %s)\n", report.Name, len(report.Results), status, report.RunID)
}
