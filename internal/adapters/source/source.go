// Package source reads saved game files from a data directory laid out as
// <season>/<game_id>/, where season is the first four digits of the id.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/okian/rinkstats/internal/domain/model"
)

// File names inside a game directory.
const (
	PlaysFile = "plays.json"
	GameFile  = "game.json"
)

// Sentinel errors.
var (
	ErrGameNotFound  = errors.New("game files not found")
	ErrInvalidGameID = errors.New("invalid game id")
)

// Game is one saved game: the teams by name or abbreviation and its plays.
type Game struct {
	GameID   string           `json:"game_id"`
	AwayTeam string           `json:"away_team"`
	HomeTeam string           `json:"home_team"`
	Plays    []model.RawEvent `json:"-"`
}

// PlaysProvider loads games by id.
type PlaysProvider interface {
	Load(ctx context.Context, gameID string) (Game, error)
}

// Dir is a PlaysProvider over a local data directory.
type Dir struct {
	root string
}

// NewDir returns a provider rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Path returns the directory holding gameID's files.
func (d *Dir) Path(gameID string) (string, error) {
	if len(gameID) < 4 || filepath.Base(gameID) != gameID {
		return "", fmt.Errorf("%w: %q", ErrInvalidGameID, gameID)
	}
	return filepath.Join(d.root, gameID[:4], gameID), nil
}

// Load reads game.json and plays.json of gameID.
func (d *Dir) Load(ctx context.Context, gameID string) (Game, error) {
	const op = "source.load"
	if err := ctx.Err(); err != nil {
		return Game{}, err
	}
	dir, err := d.Path(gameID)
	if err != nil {
		return Game{}, err
	}

	g := Game{GameID: gameID}
	if err := readJSON(filepath.Join(dir, GameFile), &g); err != nil {
		return Game{}, fmt.Errorf("%s: game %s: %w", op, gameID, err)
	}
	if err := readJSON(filepath.Join(dir, PlaysFile), &g.Plays); err != nil {
		return Game{}, fmt.Errorf("%s: game %s: %w", op, gameID, err)
	}
	g.GameID = gameID
	return g, nil
}

// Save writes g under its game directory, creating it if needed.
func (d *Dir) Save(ctx context.Context, g Game) error {
	const op = "source.save"
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := d.Path(g.GameID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeJSON(filepath.Join(dir, GameFile), g); err != nil {
		return fmt.Errorf("%s: game %s: %w", op, g.GameID, err)
	}
	if err := writeJSON(filepath.Join(dir, PlaysFile), g.Plays); err != nil {
		return fmt.Errorf("%s: game %s: %w", op, g.GameID, err)
	}
	return nil
}

// Season lists the saved game ids of season in id order.
func (d *Dir) Season(ctx context.Context, season string) ([]string, error) {
	const op = "source.season"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(d.root, season))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(d.root, season, e.Name(), PlaysFile)); err == nil {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrGameNotFound, path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
