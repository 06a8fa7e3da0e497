package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/gophnotes/internal/client/api"
	"github.com/iudanet/gophnotes/internal/client/cli"
	"github.com/iudanet/gophnotes/internal/client/iocli"
	"github.com/iudanet/gophnotes/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "gophnotes-client.db", "Path to local session database")
	password := flag.String("password", "", "Account password (not recommended)")
	passwordFile := flag.String("password-file", "", "Path to file containing the account password")

	flag.Parse()

	stdio := iocli.NewStdio()

	if *showVersion {
		printVersion(stdio)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		os.Exit(1)
	}

	opts := cli.Options{
		ServerURL: *serverURL,
		Passwords: cli.Passwords{FromFile: *passwordFile, FromArgs: *password},
	}

	if err := run(stdio, *dbPath, opts, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(stdio iocli.IO, dbPath string, opts cli.Options, command string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := boltdb.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	apiClient := api.NewClient(opts.ServerURL)

	return cli.New(stdio, apiClient, sessions, opts).Run(ctx, command, args)
}

func printVersion(out iocli.IO) {
	out.Printf("GophNotes Client\n")
	out.Printf("Version:    %s\n", Version)
	out.Printf("Build Date: %s\n", BuildDate)
	out.Printf("Git Commit: %s\n", GitCommit)
}
