package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/pocketledger/internal/adapter/repository/file"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/config"
	"github.com/iho/pocketledger/internal/infrastructure/logger"
	"github.com/iho/pocketledger/internal/infrastructure/postgres"
	"github.com/iho/pocketledger/internal/usecase"
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "pocketledger-cli",
		Short:         "PocketLedger CLI tool",
		Long:          `A command line interface for the PocketLedger ops API and ledger files.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the PocketLedger ops API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newUserCmd(opts, "balance", "Show a user's balance and totals"),
		newUserCmd(opts, "report", "Show a user's financial report"),
		newUserCmd(opts, "analysis", "Show a user's financial analysis and advice"),
		newLedgerCmd(opts),
		newMigrateCmd(),
	)

	return rootCmd
}

func newUserCmd(opts *options, name, short string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/users/" + url.PathEscape(userID) + "/" + name
			return getAndPrint(cmd.OutOrStdout(), opts, path)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Telegram user id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLedgerCmd(opts *options) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency on a running bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConsistency(cmd.OutOrStdout(), opts)
		},
	}

	var dataFile string
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a ledger JSON document offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataFile == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("no --file given and configuration failed: %w", err)
				}
				dataFile = cfg.DataFile
			}
			return verifyFile(cmd.OutOrStdout(), dataFile)
		},
	}
	verifyCmd.Flags().StringVar(&dataFile, "file", "", "Path to the ledger document (defaults to DATA_FILE)")

	ledgerCmd.AddCommand(consistencyCmd, verifyCmd)
	return ledgerCmd
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the postgres ledger schema (uses DATABASE_URL and MIGRATIONS_PATH)",
	}

	run := func(fn func(databaseURL, migrationsPath string, logger zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, cmd.ErrOrStderr())
			return fn(cfg.DatabaseURL, cfg.MigrationsPath, log)
		}
	}

	migrateCmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply pending migrations", RunE: run(postgres.RunMigrations)},
		&cobra.Command{Use: "down", Short: "Roll back the last migration", RunE: run(postgres.RunMigrationsDown)},
	)
	return migrateCmd
}

func get(opts *options, path string) (int, []byte, error) {
	client := &http.Client{Timeout: opts.timeout}
	resp, err := client.Get(opts.baseURL + path)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func getAndPrint(w io.Writer, opts *options, path string) error {
	status, body, err := get(opts, path)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return fmt.Errorf("request failed (status: %d): %s", status, bytes.TrimSpace(body))
	}

	return printJSON(w, body)
}

func checkConsistency(w io.Writer, opts *options) error {
	status, body, err := get(opts, "/api/v1/ledger/consistency")
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		fmt.Fprintf(w, "Consistency check FAILED (Status: %d)\nResponse: %s\n", status, bytes.TrimSpace(body))
		return errors.New("ledger is inconsistent")
	}

	var result struct {
		Status     string `json:"status"`
		Consistent bool   `json:"consistent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Fprintf(w, "Consistency check PASSED\n")
	fmt.Fprintf(w, "Consistent: %v\n", result.Consistent)
	fmt.Fprintf(w, "Status: %s\n", result.Status)
	return nil
}

func verifyFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	byUser, err := file.Decode(data, time.Local)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ledgers := make([]domain.UserLedger, 0, len(ids))
	transactions := 0
	for _, id := range ids {
		ledgers = append(ledgers, byUser[id].Clone())
		transactions += len(byUser[id].Transactions)
	}

	if err := usecase.VerifyLedgers(ledgers); err != nil {
		fmt.Fprintf(w, "Verification FAILED for %s\n%v\n", path, err)
		return errors.New("ledger document is inconsistent")
	}

	fmt.Fprintf(w, "Verification PASSED: %d users, %d transactions\n", len(ids), transactions)
	return nil
}

func printJSON(w io.Writer, body []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
