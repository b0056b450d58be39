package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/tenfold-cards/tenfold/internal/auth"
	"github.com/tenfold-cards/tenfold/internal/config"
	"github.com/tenfold-cards/tenfold/internal/domain"
	"github.com/tenfold-cards/tenfold/internal/importer"
	"github.com/tenfold-cards/tenfold/internal/storage"
	"github.com/tenfold-cards/tenfold/internal/study"
	"github.com/tenfold-cards/tenfold/internal/tui"
	"github.com/tenfold-cards/tenfold/internal/web"
)

const usage = `Usage: tenfold <command> [flags]

Commands:
  serve    run the HTTP API server
  study    run a study session in the terminal
  import   import markdown decks from a directory or git repository
`

func main() {
	// a missing .env is fine; explicit environment still applies
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "study":
		err = runStudy(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "tenfold: unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("tenfold %s: %v", os.Args[1], err)
	}
}

// Flags mirror config keys and carry the same defaults, so an untouched
// flag never overrides a value from the file or the environment.
func commonFlags(name string) *pflag.FlagSet {
	def := config.Default()
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.String("config", "", "Path to a YAML config file")
	fs.String("db.path", def.DB.Path, "Path to the SQLite database file")
	return fs
}

func loadConfig(fs *pflag.FlagSet) (config.Config, error) {
	path, _ := fs.GetString("config")
	return config.Load(path, fs)
}

func runServe(args []string) error {
	def := config.Default()
	fs := commonFlags("serve")
	fs.String("http.addr", def.HTTP.Addr, "Address for the HTTP server to listen on")
	fs.Int("study.new_cards_per_session", def.Study.NewCardsPerSession, "New-card budget per study session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (set TENFOLD_AUTH__JWT_SECRET)")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	db, err := storage.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	tokens, err := auth.NewManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	svc := study.NewService(db, cfg.Study.NewCardsPerSession)
	server := web.NewServer(db, svc, tokens, logger)

	logger.Info("listening", "addr", cfg.HTTP.Addr, "db", cfg.DB.Path)
	return http.ListenAndServe(cfg.HTTP.Addr, server)
}

func runStudy(args []string) error {
	fs := commonFlags("study")
	fs.String("user", "", "Email of the user to study as")
	fs.Int("study.new_cards_per_session", config.Default().Study.NewCardsPerSession,
		"New-card budget per study session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	email, _ := fs.GetString("user")
	if email == "" {
		return errors.New("--user is required")
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	// keep slog chatter off the terminal while the TUI owns it
	logger := slog.New(slog.NewTextHandler(&nopWriter{}, nil))

	db, err := storage.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	user, err := db.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no user with email %s; run `tenfold import --user %s` first", email, email)
		}
		return err
	}

	svc := study.NewService(db, cfg.Study.NewCardsPerSession)
	session, err := study.NewSession(study.SessionConfig{
		Source:   svc,
		Recorder: svc,
		UserID:   user.ID,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(session), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	// let outstanding review submissions land before the process exits
	session.Finish()
	return nil
}

func runImport(args []string) error {
	fs := commonFlags("import")
	fs.String("user", "", "Email of the user to import cards for")
	fs.String("dir", "", "Local directory of markdown decks")
	fs.String("git", "", "Git repository URL of markdown decks")
	fs.String("cache", "", "Directory for cloned repositories (default: ~/.cache/tenfold)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	email, _ := fs.GetString("user")
	dir, _ := fs.GetString("dir")
	gitURL, _ := fs.GetString("git")
	if email == "" {
		return errors.New("--user is required")
	}
	if (dir == "") == (gitURL == "") {
		return errors.New("exactly one of --dir or --git is required")
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := storage.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	user, err := db.UserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// local-only account; an empty hash never matches a password,
		// so it cannot log in over HTTP until one is set
		user, err = db.CreateUser(ctx, email, "")
		if err == nil {
			logger.Info("created user", "email", email)
		}
	}
	if err != nil {
		return err
	}

	im := importer.New(db, logger)
	var result importer.Result
	if dir != "" {
		result, err = im.ImportDir(ctx, user.ID, dir)
	} else {
		cacheDir, _ := fs.GetString("cache")
		if cacheDir == "" {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				return homeErr
			}
			cacheDir = filepath.Join(home, ".cache", "tenfold")
		}
		result, err = im.ImportGit(ctx, user.ID, gitURL, cacheDir)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Parsed %d cards: %d imported, %d already present.\n",
		result.Parsed, result.Imported, result.Skipped)
	if len(result.Errors) > 0 {
		fmt.Printf("%d files had errors:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %v\n", e)
		}
	}
	return nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
