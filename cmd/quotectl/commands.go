package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-generator/internal/bootstrap"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/config"
)

// cliSession keys the last-viewed quote of quotectl in the session store.
const cliSession = "quotectl"

type globalFlags struct {
	configDir string
	profile   string
	dbPath    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "quotectl",
		Short: "Manage the quote database",
		Long: `quotectl reads and changes the quote database used by the quote service.

It loads the same configuration as the service (configs/base.yaml, the
profile file and APP_ environment variables) and works on the SQLite file
directly, so the service does not need to be running.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", config.DefaultConfigDir, "directory holding base.yaml and profile files")
	root.PersistentFlags().StringVar(&flags.profile, "profile", os.Getenv("APP_ENVIRONMENT"), "configuration profile")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "database file (overrides storage.path)")

	root.AddCommand(
		newExportCmd(flags),
		newImportCmd(flags),
		newAddCmd(flags),
		newShowCmd(flags),
		newCategoriesCmd(flags),
		newSyncCmd(flags),
	)

	return root
}

// withCore loads configuration, opens the quote core, runs fn and closes it.
func withCore(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, core *bootstrap.Core) error) (err error) {
	cfg, err := config.LoadFrom(flags.configDir, flags.profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flags.dbPath != "" {
		cfg.Storage.Path = flags.dbPath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser := bootstrap.Logger(cfg, cmd.ErrOrStderr())
	defer func() { _ = logCloser.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	core, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Logger:    logger,
		UserAgent: "quotectl/" + Version,
	})
	if err != nil {
		return err
	}

	defer func() { err = errors.Join(err, core.Close()) }()

	return fn(ctx, core)
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every quote as a JSON array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, flags, func(ctx context.Context, core *bootstrap.Core) error {
				data, err := core.Service.Export(ctx)
				if err != nil {
					return fmt.Errorf("exporting quotes: %w", err)
				}

				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}

				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d quotes to %s\n", core.Repository.Len(), output)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append the valid quotes of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			return withCore(cmd, flags, func(ctx context.Context, core *bootstrap.Core) error {
				result, err := core.Service.Import(ctx, contents)
				if err != nil {
					return userError(err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Quotes imported successfully! %d imported, %d skipped.\n",
					result.Imported, result.Skipped)

				return nil
			})
		},
	}
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	var text, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, flags, func(ctx context.Context, core *bootstrap.Core) error {
				result, err := core.Service.AddQuote(ctx, cliSession, text, category)
				if err != nil {
					return userError(err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Quote added successfully! [%s] %s\n", result.Quote.Category, result.Quote.Text)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "quote text")
	cmd.Flags().StringVar(&category, "category", "", "quote category")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newShowCmd(flags *globalFlags) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a random quote",
		Long:  "Print a random quote from the given category, or from the category selected on the page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, flags, func(ctx context.Context, core *bootstrap.Core) error {
				filter := domain.NormalizeFilter(category)
				if !cmd.Flags().Changed("category") {
					var err error
					if filter, err = core.Service.Filter(ctx); err != nil {
						return err
					}
				}

				display := core.Service.PickAndShow(ctx, cliSession, filter)
				if display.Empty {
					fmt.Fprintln(cmd.OutOrStdout(), display.Message)
					return nil
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%q\n  (%s)\n", display.Quote.Text, display.Quote.Category)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", `category to pick from ("all" for every category)`)

	return cmd
}

func newCategoriesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, flags, func(ctx context.Context, core *bootstrap.Core) error {
				categories := core.Service.Categories(ctx)
				if len(categories) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(categories, "\n"))
				}

				return nil
			})
		},
	}
}

func newSyncCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle against the remote source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, flags, func(ctx context.Context, core *bootstrap.Core) error {
				report, err := core.Scheduler.RunOnce(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s (local %d, remote %d)\n", report.Message, report.LocalCount, report.RemoteCount)

				if report.Status == domain.SyncStatusFailed {
					return errors.New(report.Error)
				}

				return nil
			})
		},
	}
}

// userError strips the field prefix from validation errors.
func userError(err error) error {
	if domain.IsValidation(err) {
		return errors.New(domain.ValidationMessage(err))
	}

	return err
}
