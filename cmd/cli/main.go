package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/orchis-hq/orchis/pkg/adapters/repository/sqlite"
	"github.com/orchis-hq/orchis/pkg/config"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/logging"
)

// snapshot is the export file format.
type snapshot struct {
	Tools     []domain.Tool           `json:"tools"`
	Posts     []domain.Post           `json:"posts"`
	Roadmap   []domain.RoadmapItem    `json:"roadmap"`
	Changelog []domain.ChangelogEntry `json:"changelog"`
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	// Logs go to stderr so an export can be piped.
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel)

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := doExport(ctx, repo, os.Stdout); err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		file, err := os.Open(*importFile)
		if err != nil {
			logger.Error("failed to open file", "file", *importFile, "error", err)
			os.Exit(1)
		}
		defer file.Close()

		if _, err := doImport(ctx, repo, file, logger); err != nil {
			logger.Error("import failed", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(ctx context.Context, repo *sqlite.SQLiteRepository, w io.Writer) error {
	var snap snapshot
	var err error
	if snap.Tools, err = repo.DumpTools(ctx); err != nil {
		return fmt.Errorf("dump tools: %w", err)
	}
	if snap.Posts, err = repo.DumpPosts(ctx); err != nil {
		return fmt.Errorf("dump posts: %w", err)
	}
	if snap.Roadmap, err = repo.ListRoadmapItems(ctx); err != nil {
		return fmt.Errorf("dump roadmap: %w", err)
	}
	if snap.Changelog, err = repo.ListChangelog(ctx, 0); err != nil {
		return fmt.Errorf("dump changelog: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// doImport restores every collection of a snapshot. Existing tools (by
// name), posts (by slug), roadmap items (by title) and changelog entries
// (by id) are skipped. Returns the number of records created.
func doImport(ctx context.Context, repo *sqlite.SQLiteRepository, r io.Reader, logger *slog.Logger) (int, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}

	count := 0
	for _, t := range snap.Tools {
		existing, err := repo.GetToolByName(ctx, t.Name)
		if err != nil {
			return count, err
		}
		if existing != nil {
			logger.Info("skipping existing tool", "name", t.Name)
			continue
		}
		if err := repo.CreateTool(ctx, &t); err != nil {
			logger.Warn("failed to import tool", "name", t.Name, "error", err)
			continue
		}
		count++
	}

	for _, p := range snap.Posts {
		existing, err := repo.GetPostBySlug(ctx, p.Slug)
		if err != nil {
			return count, err
		}
		if existing != nil {
			logger.Info("skipping existing post", "slug", p.Slug)
			continue
		}
		if err := repo.CreatePost(ctx, &p); err != nil {
			logger.Warn("failed to import post", "slug", p.Slug, "error", err)
			continue
		}
		count++
	}

	items, err := repo.ListRoadmapItems(ctx)
	if err != nil {
		return count, err
	}
	byTitle := make(map[string]int64, len(items))
	for _, it := range items {
		byTitle[it.Title] = it.ID
	}
	// Snapshot roadmap ids are remapped to ids in the target database.
	itemIDs := make(map[int64]int64, len(snap.Roadmap))
	for _, it := range snap.Roadmap {
		if id, ok := byTitle[it.Title]; ok {
			logger.Info("skipping existing roadmap item", "title", it.Title)
			itemIDs[it.ID] = id
			continue
		}
		oldID := it.ID
		if err := repo.CreateRoadmapItem(ctx, &it); err != nil {
			logger.Warn("failed to import roadmap item", "title", it.Title, "error", err)
			continue
		}
		itemIDs[oldID] = it.ID
		byTitle[it.Title] = it.ID
		count++
	}

	entries, err := repo.ListChangelog(ctx, 0)
	if err != nil {
		return count, err
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.ID] = true
	}
	for _, e := range snap.Changelog {
		if seen[e.ID] {
			logger.Info("skipping existing changelog entry", "id", e.ID)
			continue
		}
		if e.RoadmapItemID != nil {
			if id, ok := itemIDs[*e.RoadmapItemID]; ok {
				e.RoadmapItemID = &id
			} else {
				e.RoadmapItemID = nil
			}
		}
		if err := repo.CreateChangelogEntry(ctx, &e); err != nil {
			logger.Warn("failed to import changelog entry", "id", e.ID, "error", err)
			continue
		}
		seen[e.ID] = true
		count++
	}

	logger.Info("import finished", "created", count)
	return count, nil
}
