package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"donorsetup/internal/adapter/repo"
	"donorsetup/internal/domain"
	"donorsetup/internal/infra"
	"donorsetup/internal/providers/supabase"
	"donorsetup/internal/provision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit code: 1 for configuration or usage errors,
// 0 once the report is written, even when some accounts failed.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("setupusers", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonFlag := fs.Bool("json", false, "print the report as JSON")
	onlyFlag := fs.String("only", "", "provision a single fixture account by email")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if err := infra.LoadDotEnv(); err != nil {
		return exitWithError(stderr, err)
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return exitWithError(stderr, err)
	}
	logger := infra.NewLogger(cfg).With().Str("cmd", "setupusers").Logger()

	specs := provision.FilterByEmail(provision.DefaultAccounts(), *onlyFlag)
	if len(specs) == 0 {
		return exitWithError(stderr, fmt.Errorf("no fixture account matches %q", *onlyFlag))
	}

	client, err := supabase.NewClient(supabase.Options{
		BaseURL:    cfg.SupabaseURL,
		ServiceKey: cfg.ServiceRoleKey,
		PageSize:   cfg.PageSize,
		Timeout:    cfg.HTTPTimeout,
		Logger:     &logger,
	})
	if err != nil {
		return exitWithError(stderr, err)
	}

	opts := provision.Options{Identity: client, Profiles: client, Donors: client, Logger: &logger}
	if cfg.ProfileBackend == infra.ProfileBackendPostgres {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return exitWithError(stderr, err)
		}
		defer pool.Close()
		runner := infra.NewSQLRunner(pool, logger)
		opts.Profiles = repo.NewProfileRepository(runner)
		opts.Donors = repo.NewDonorRepository(runner)
		logger.Info().Msg("writing profiles and donors through postgres")
	}

	p, err := provision.New(opts)
	if err != nil {
		return exitWithError(stderr, err)
	}

	logger.Info().Int("accounts", len(specs)).Str("supabase_url", cfg.SupabaseURL).Msg("provisioning test accounts")
	report := domain.NewReport(p.Run(ctx, specs))

	if *jsonFlag {
		err = provision.WriteJSON(stdout, report)
	} else {
		err = provision.WriteReport(stdout, report, specs)
	}
	if err != nil {
		return exitWithError(stderr, fmt.Errorf("write report: %w", err))
	}
	return 0
}

func exitWithError(w io.Writer, err error) int {
	fmt.Fprintln(w, err)
	return 1
}
