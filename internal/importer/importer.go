package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/domain"
)

// Store is the persistence surface the importer needs.
type Store interface {
	CreateFlashcard(ctx context.Context, userID uuid.UUID, front, back, fingerprint string) (domain.Flashcard, error)
	FlashcardByFingerprint(ctx context.Context, userID uuid.UUID, fingerprint string) (domain.Flashcard, error)
}

// Result counts what an import run did.
type Result struct {
	Parsed   int
	Imported int
	Skipped  int // cards already present, matched by fingerprint
	Errors   []error
}

// Importer reads markdown decks and inserts their cards for one user.
// Imported cards carry creation-default scheduling fields, so they all
// enter the study queue as new cards.
type Importer struct {
	store  Store
	logger *slog.Logger
}

// New creates an importer.
func New(store Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, logger: logger}
}

// ImportDir walks dir for .md files and imports every card found.
func (im *Importer) ImportDir(ctx context.Context, userID uuid.UUID, dir string) (Result, error) {
	var res Result

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		cards, parseErr := ParseFile(path)
		if parseErr != nil {
			res.Errors = append(res.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		res.Parsed += len(cards)

		for _, card := range cards {
			if err := ctx.Err(); err != nil {
				return err
			}
			im.importCard(ctx, userID, card, &res)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("failed to walk deck directory %s: %w", dir, err)
	}

	im.logger.Info("import complete",
		"dir", dir,
		"parsed", res.Parsed,
		"imported", res.Imported,
		"skipped", res.Skipped,
		"errors", len(res.Errors),
	)
	return res, nil
}

// ImportGit clones or updates the deck repository at repoURL under
// cacheDir, then imports it like a local directory.
func (im *Importer) ImportGit(ctx context.Context, userID uuid.UUID, repoURL, cacheDir string) (Result, error) {
	localPath, err := repoLocalPath(cacheDir, repoURL)
	if err != nil {
		return Result{}, err
	}
	if err := syncRepo(repoURL, localPath, im.logger); err != nil {
		return Result{}, err
	}
	return im.ImportDir(ctx, userID, localPath)
}

func (im *Importer) importCard(ctx context.Context, userID uuid.UUID, card ParsedCard, res *Result) {
	fp := Fingerprint(card.Front, card.Back)

	_, err := im.store.FlashcardByFingerprint(ctx, userID, fp)
	if err == nil {
		res.Skipped++
		return
	}
	if !errors.Is(err, domain.ErrNotFound) {
		res.Errors = append(res.Errors, fmt.Errorf("fingerprint lookup: %w", err))
		return
	}

	if _, err := im.store.CreateFlashcard(ctx, userID, card.Front, card.Back, fp); err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("insert card: %w", err))
		return
	}
	res.Imported++
}

// repoLocalPath maps a git URL onto a stable directory under baseDir.
func repoLocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		p := strings.TrimSuffix(parsed.Path, ".git")
		return filepath.Join(baseDir, parsed.Host, p), nil
	}

	// scp-like syntax: git@host:owner/repo.git
	if strings.Contains(repoURL, "@") {
		parts := strings.SplitN(repoURL, ":", 2)
		if len(parts) == 2 {
			hostParts := strings.SplitN(parts[0], "@", 2)
			if len(hostParts) == 2 {
				repoPath := strings.TrimSuffix(parts[1], ".git")
				return filepath.Join(baseDir, hostParts[1], repoPath), nil
			}
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
