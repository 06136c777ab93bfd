package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/atm/internal/accounts"
	"github.com/cleared-dev/atm/internal/config"
)

const exampleScript = `# Run with: atm run scripts/example.yaml --seed accounts.csv
name: example
steps:
  - op: withdraw
    account: 12345678-1234
    amount: "20"
  - op: balance
    account: 12345678-1234
    expect_balance: "280.30"
  - op: register
    account: 1111-2222
    owner: Alice
    amount: "200.0"
    expect_error: invalid_argument
  - op: withdraw
    account: 1234-5678
    amount: "-10"
    expect_error: invalid_argument
  - op: withdraw
    account: 1234-5678
    amount: "100"
    expect_error: insufficient_funds
  - op: withdraw
    account: 1234-5678
    amount: "20"
  - op: balance
    account: 1234-5678
    expect_balance: "30"
  - op: print
    account: 12345678-1234
    path: sam.txt
`

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a project with a config, sample accounts and an example script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized atm project at %s\n", absDir)
			return nil
		},
	}
	return cmd
}

func runInit(dir string) error {
	cfg := config.Default()

	dirs := []string{
		"scripts",
		cfg.Export.Dir,
		filepath.Dir(cfg.Audit.Path),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.SaveFile(filepath.Join(dir, "accounts.csv"), accounts.DemoAccounts()); err != nil {
		return fmt.Errorf("writing sample accounts: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "scripts", "example.yaml"), []byte(exampleScript), 0o644); err != nil {
		return fmt.Errorf("writing example script: %w", err)
	}

	return nil
}
