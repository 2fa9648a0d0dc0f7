package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/contacts-export/internal/account"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/contact/repo"
	"github.com/ovaphlow/pitchfork/contacts-export/internal/output"
	"github.com/ovaphlow/pitchfork/contacts-export/pkg/database"
)

// options holds the parsed command line.
type options struct {
	all      bool
	listOnly bool
	accounts []string
	aliases  map[string]*bool

	dbPath  string
	outPath string
}

// request turns flags into an account request. Alias flags follow the
// free-form --account values, in registry order.
func (o *options) request(reg account.Registry) account.Request {
	types := append([]string(nil), o.accounts...)
	for _, k := range reg {
		if on := o.aliases[k.Alias]; on != nil && *on {
			types = append(types, k.Type)
		}
	}
	return account.Request{Types: types, All: o.all, ListOnly: o.listOnly}
}

func newRootCmd(logger *zap.SugaredLogger, reg account.Registry) *cobra.Command {
	opts := &options{aliases: make(map[string]*bool, len(reg))}

	cmd := &cobra.Command{
		Use:   "acdb2vcf [flags] <contacts2.db> [output.vcf]",
		Short: "Export contacts from an Android contacts2.db as vCards",
		Long: `Reads the raw contacts of the selected accounts from an Android
contacts2.db and writes one vCard 3.0 record per contact.

Without an output file the records are printed to stdout.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dbPath = args[0]
			if len(args) > 1 {
				opts.outPath = args[1]
			}
			return run(cmd.Context(), opts, reg, logger, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.all, "all", "a", false, "Export all accounts")
	flags.BoolVar(&opts.listOnly, "list-accounts", false, "Just list accounts")
	flags.StringSliceVar(&opts.accounts, "account", nil, "Export an account type that has no alias flag (repeatable)")
	for _, k := range reg {
		opts.aliases[k.Alias] = flags.Bool(k.Alias, false, fmt.Sprintf("Export contacts associated with %q account", k.Alias))
	}
	return cmd
}

func run(ctx context.Context, opts *options, reg account.Registry, logger *zap.SugaredLogger, stdout io.Writer) error {
	cfg, err := database.ConfigFromEnv()
	if err != nil {
		return err
	}
	cfg.Path = opts.dbPath
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	// wrap with sqlx for the store repo
	db := sqlx.NewDb(sqlDB, database.DriverName)
	defer db.Close()

	store := repo.NewStoreRepo(db)

	var present []entity.Account
	if opts.all || opts.listOnly {
		present, err = store.ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
	}

	sel := account.Select(opts.request(reg), present, reg)
	if sel.Done {
		for _, line := range sel.Listing {
			fmt.Fprintln(stdout, line)
		}
		return nil
	}
	if sel.Empty() {
		logger.Infow("no accounts specified, nothing to export")
		return nil
	}

	var sink contact.Sink = output.NewDisplaySink(stdout)
	if opts.outPath != "" {
		sink = output.NewFileSink(opts.outPath)
	}

	logger.Debugw("resolved account types", "types", sel.Types)
	stats, err := contact.NewService(store, logger).Export(ctx, sel.Types, sink)
	if err != nil {
		return err
	}
	logger.Infow("export finished",
		"contacts", stats.Contacts,
		"accounts", stats.Accounts,
		"skipped_accounts", stats.Skipped,
		"rows", stats.Rows,
		"ignored_rows", stats.Ignored,
	)
	return nil
}
