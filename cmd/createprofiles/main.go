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

// createprofiles writes profile rows for fixture accounts that already exist
// in auth, for projects created before the profile trigger was installed.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("createprofiles", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonFlag := fs.Bool("json", false, "print the report as JSON")
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
	logger := infra.NewLogger(cfg).With().Str("cmd", "createprofiles").Logger()

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
	}

	p, err := provision.New(opts)
	if err != nil {
		return exitWithError(stderr, err)
	}

	results, err := p.Backfill(ctx, provision.DefaultAccounts())
	if err != nil {
		return exitWithError(stderr, err)
	}
	report := domain.NewReport(results)

	if *jsonFlag {
		err = provision.WriteJSON(stdout, report)
	} else {
		err = provision.WriteReport(stdout, report, nil)
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
