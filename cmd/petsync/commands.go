package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pet-registry/internal/app"
	"pet-registry/internal/domain/sheetimport"
	"pet-registry/internal/platform/config"
	"pet-registry/internal/platform/logger"
)

type runOptions struct {
	csvPath string
	store   string
	output  string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "petsync",
		Short:         "Sync the pet registry from Google Sheets + Drive",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one sync and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Read rows from a local CSV export instead of Google Sheets")
	cmd.Flags().StringVar(&opts.store, "store", "", "Override STORE_DRIVER (postgres|mongo|sqlite|memory)")
	cmd.Flags().StringVar(&opts.output, "output", "json", "Summary format: json|text")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		switch opts.output {
		case "json", "text":
			return nil
		}
		return withCode(exitUsage, fmt.Errorf("invalid --output %q", opts.output))
	}
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration without touching any row",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return withCode(exitUsage, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration ok (store=%s, cdn=%s)\n", cfg.Store.Driver, cfg.CDN.Provider)
			return nil
		},
	}
}

func loadConfig(storeOverride string) (config.Config, error) {
	config.LoadEnvFiles()

	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, withCode(exitUsage, err)
	}
	if s := strings.TrimSpace(storeOverride); s != "" {
		cfg.Store.Driver = strings.ToLower(s)
	}
	return cfg, nil
}

func runSync(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.store)
	if err != nil {
		return err
	}

	// logs a stderr para que stdout quede limpio con el summary
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		Output: os.Stderr,
	})

	a, err := app.Build(ctx, cfg, log, app.Options{CSVPath: opts.csvPath})
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	sum, runErr := a.Service.TryRun(ctx)
	if err := printSummary(cmd.OutOrStdout(), opts.output, sum); err != nil {
		return err
	}
	return runErr
}

func printSummary(w io.Writer, format string, sum sheetimport.Summary) error {
	if format == "text" {
		_, err := fmt.Fprintln(w, sheetimport.CompletionMessage(sum))
		for _, e := range sum.Errors {
			fmt.Fprintln(w, "-", e)
		}
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
