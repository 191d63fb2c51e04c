// cmd/cli/main.go
//
// Operator tool that edits permission tiers directly in the store, for
// bootstrapping an admin before the bot is running.
//
//	cli grant <user> <level>
//	cli revoke <user>
//	cli perms
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/keshon/parlor/internal/config"
	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/internal/storage/backend"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("cli", pflag.ExitOnError)
	envFile := flags.String("env-file", config.DefaultEnvFile, "dotenv file to load")
	driver := flags.String("storage-driver", "", "sqlite or json (overrides STORAGE_DRIVER)")
	path := flags.String("storage-path", "", "store location (overrides STORAGE_PATH)")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cli [flags] grant <user> <level> | revoke <user> | perms")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*envFile)
	if err != nil {
		fatal(err)
	}
	if *driver != "" {
		cfg.StorageDriver = *driver
	}
	if *path != "" {
		cfg.StoragePath = *path
	}

	store, err := backend.Open(cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	if err := execute(context.Background(), store, flags.Args(), os.Stdout); err != nil {
		_ = store.Close()
		fatal(err)
	}
}

func execute(ctx context.Context, store storage.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand (grant, revoke, perms)")
	}

	switch args[0] {
	case "grant":
		if len(args) != 3 {
			return fmt.Errorf("usage: grant <user> <level>")
		}
		level, err := strconv.ParseInt(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("permission level must be a number: %q", args[2])
		}
		if err := store.SetTier(ctx, args[1], int(level)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Granted permission level %d to %s\n", level, args[1])
	case "revoke":
		if len(args) != 2 {
			return fmt.Errorf("usage: revoke <user>")
		}
		removed, err := store.RemoveTier(ctx, args[1])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(out, "User %s has no permissions\n", args[1])
			return nil
		}
		fmt.Fprintf(out, "Revoked permissions for %s\n", args[1])
	case "perms":
		entries, err := store.ListTiers(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No users with permissions")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s\t%d\n", e.Identity, e.Tier)
		}
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "cli:", err)
	os.Exit(1)
}
