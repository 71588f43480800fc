// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/user"
)

const usage = `usage: cli [-config path] <command> [flags]

commands:
  migrate                                     apply pending database migrations
  create-admin -name N -email E -password P   create an administrator account
  gen-secret [-bytes 48]                      print a random JWT secret
`

var errUsage = errors.New("invalid usage")

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	switch args[0] {
	case "migrate":
		return migrate(ctx, configPath)
	case "create-admin":
		return createAdmin(ctx, configPath, args[1:])
	case "gen-secret":
		return genSecret(args[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func openDatabase(ctx context.Context, configPath string) (*core.Database, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return core.NewDatabase(ctx, cfg.Database)
}

func migrate(ctx context.Context, configPath string) error {
	db, err := openDatabase(ctx, configPath)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process is exiting

	applied, err := core.Migrate(ctx, db.DB)
	if err != nil {
		return err
	}

	slog.Info("migrations applied", "count", applied)
	return nil
}

func createAdmin(ctx context.Context, configPath string, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "initial password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *name == "" || *email == "" || *password == "" {
		return fmt.Errorf("create-admin needs -name, -email and -password: %w", errUsage)
	}
	if len(*password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	db, err := openDatabase(ctx, configPath)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process is exiting

	svc := user.NewService(user.NewRepository(db.DB))

	admin, err := svc.CreateAdmin(ctx, *name, *email, *password)
	if err != nil {
		return err
	}

	slog.Info("admin created", "id", admin.ID, "email", admin.Email)
	return nil
}

func genSecret(args []string) error {
	fs := flag.NewFlagSet("gen-secret", flag.ContinueOnError)
	n := fs.Int("bytes", 48, "random bytes before encoding")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *n < 32 {
		return errors.New("secret must be at least 32 bytes")
	}

	secret, err := core.GenerateSecureToken(*n)
	if err != nil {
		return err
	}

	fmt.Println(secret)
	return nil
}
