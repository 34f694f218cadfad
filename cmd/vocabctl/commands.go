package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"learnwords/catalog"
	"learnwords/config"
	"learnwords/db"
	"learnwords/models"
	"learnwords/utils"
)

// appContext is shared by every command. The config is only loaded when a
// command needs it, so catalog tooling works without a database.
type appContext struct {
	configPath string
	cfg        *config.Config
}

func (a *appContext) loadConfig() (*config.Config, error) {
	if a.cfg == nil {
		cfg, err := config.LoadConfig(a.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		a.cfg = cfg
	}
	return a.cfg, nil
}

// withStore opens the configured store, runs fn and closes it again
func (a *appContext) withStore(fn func(ctx context.Context, store db.Store) error) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close(ctx)

	return fn(ctx, store)
}

type SeedUserCmd struct {
	Name     string `help:"Display name." required:""`
	Email    string `help:"Unique email address." required:""`
	Password string `help:"Plain-text password; stored as a bcrypt hash." required:""`
}

func (c *SeedUserCmd) Run(app *appContext) error {
	hashed, err := utils.HashPassword(c.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     strings.TrimSpace(c.Name),
		Email:    strings.ToLower(strings.TrimSpace(c.Email)),
		Password: hashed,
	}
	err = app.withStore(func(ctx context.Context, store db.Store) error {
		return store.CreateUser(ctx, user)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s <%s>\n", user.ID.Hex(), user.Email)
	return nil
}

type TokenCmd struct {
	UserID string `help:"User id (hex ObjectID)." required:""`
	Email  string `help:"Optional email claim."`
}

func (c *TokenCmd) Run(app *appContext) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	token, err := utils.NewTokenManager(cfg.JWT.Secret, cfg.TokenExpiry()).GenerateToken(c.UserID, c.Email)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

type SetStreakCmd struct {
	UserID string `help:"User id (hex ObjectID)." required:""`
	Streak int    `help:"New streak value." required:""`
}

func (c *SetStreakCmd) Run(app *appContext) error {
	if c.Streak < 0 {
		return fmt.Errorf("streak must not be negative")
	}
	return app.withStore(func(ctx context.Context, store db.Store) error {
		if err := store.SetStreak(ctx, c.UserID, c.Streak); err != nil {
			return err
		}
		fmt.Printf("Streak for %s set to %d\n", c.UserID, c.Streak)
		return nil
	})
}

type AddBadgeCmd struct {
	UserID string `help:"User id (hex ObjectID)." required:""`
	Badge  string `help:"Badge name." required:""`
}

func (c *AddBadgeCmd) Run(app *appContext) error {
	badge := strings.TrimSpace(c.Badge)
	if badge == "" {
		return fmt.Errorf("badge must not be empty")
	}
	return app.withStore(func(ctx context.Context, store db.Store) error {
		if err := store.AddBadge(ctx, c.UserID, badge); err != nil {
			return err
		}
		fmt.Printf("Badge %q awarded to %s\n", badge, c.UserID)
		return nil
	})
}

type ImportCatalogCmd struct {
	In       string `help:"Spreadsheet to read (.xlsx)." type:"existingfile" required:""`
	Out      string `help:"Catalog JSON to write." type:"path" required:""`
	Sheet    string `help:"Sheet name." default:"Sheet1"`
	StartRow int    `help:"First data row (1-based)." default:"2"`
}

func (c *ImportCatalogCmd) Run(app *appContext) error {
	importCfg := catalog.DefaultImportConfig()
	importCfg.FilePath = c.In
	importCfg.SheetName = c.Sheet
	importCfg.StartRow = c.StartRow

	words, result, err := catalog.ImportExcel(importCfg)
	if err != nil {
		return err
	}

	if err := writeCatalog(c.Out, words); err != nil {
		return err
	}

	fmt.Printf("Processed %d rows: %d imported, %d skipped, %d days\n",
		result.TotalProcessed, result.Imported, result.Skipped, words.Len())
	for _, msg := range result.Errors {
		fmt.Printf("  - %s\n", msg)
	}
	return nil
}

// writeCatalog writes the catalog JSON to path, reporting flush and close failures
func writeCatalog(path string, words *catalog.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := words.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

type CatalogCheckCmd struct {
	Path string `help:"Catalog JSON to check; defaults to catalog.path from config." type:"path"`
}

func (c *CatalogCheckCmd) Run(app *appContext) error {
	path := c.Path
	if path == "" {
		cfg, err := app.loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Catalog.Path
	}

	words, err := catalog.Load(path)
	if err != nil {
		return err
	}

	total := 0
	for _, d := range words.Days() {
		n := words.WordCount(d.Day)
		total += n
		fmt.Printf("%-8s %3d words\n", d.Label, n)
		if n == 0 {
			fmt.Printf("  warning: %s has no words and is complete for every learner\n", d.Label)
		}
	}
	fmt.Printf("%d days, %d words\n", words.Len(), total)
	return nil
}
