// Package teams resolves team names and abbreviations to reference data.
package teams

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/rinkstats/internal/domain/model"
)

// Sentinel errors for directory lookups.
var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrDuplicateTeam = errors.New("duplicate team")
	ErrBadTeamList   = errors.New("bad team list")
)

// Directory maps full names and abbreviations to teams. It is read-only
// after construction.
type Directory struct {
	teams    []model.Team
	byName   map[string]model.Team
	byAbbrev map[string]model.Team
}

// New builds a directory. Names match case-insensitively; abbreviations
// are upper-cased.
func New(teams []model.Team) (*Directory, error) {
	d := &Directory{
		byName:   make(map[string]model.Team, len(teams)),
		byAbbrev: make(map[string]model.Team, len(teams)),
	}
	for _, t := range teams {
		t.Abbrev = strings.ToUpper(strings.TrimSpace(t.Abbrev))
		t.Name = strings.TrimSpace(t.Name)
		if t.Abbrev == "" {
			return nil, fmt.Errorf("%w: %q has no abbreviation", ErrBadTeamList, t.Name)
		}
		if _, dup := d.byAbbrev[t.Abbrev]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Abbrev)
		}
		d.byAbbrev[t.Abbrev] = t
		if t.Name != "" {
			d.byName[strings.ToLower(t.Name)] = t
		}
		d.teams = append(d.teams, t)
	}
	return d, nil
}

// Len returns the number of teams.
func (d *Directory) Len() int { return len(d.teams) }

// Teams returns the teams in the order given to New.
func (d *Directory) Teams() []model.Team {
	return append([]model.Team(nil), d.teams...)
}

// Lookup finds a team by abbreviation or full name.
func (d *Directory) Lookup(key string) (model.Team, bool) {
	key = strings.TrimSpace(key)
	if t, ok := d.byAbbrev[strings.ToUpper(key)]; ok {
		return t, true
	}
	t, ok := d.byName[strings.ToLower(key)]
	return t, ok
}

// Matchup resolves both teams of a game.
func (d *Directory) Matchup(away, home string) (model.Matchup, error) {
	a, ok := d.Lookup(away)
	if !ok {
		return model.Matchup{}, fmt.Errorf("%w: %q", ErrUnknownTeam, away)
	}
	h, ok := d.Lookup(home)
	if !ok {
		return model.Matchup{}, fmt.Errorf("%w: %q", ErrUnknownTeam, home)
	}
	return model.Matchup{Away: a, Home: h}, nil
}

// ReadCSV reads a team list with team_name, team_abbrv and
// normal_direct_of_play columns. Other columns are ignored and an empty
// direction cell reads as false.
func ReadCSV(r io.Reader) ([]model.Team, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrBadTeamList, err)
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	name, okName := col["team_name"]
	abbrev, okAbbrev := col["team_abbrv"]
	direction, okDir := col["normal_direct_of_play"]
	if !okName || !okAbbrev {
		return nil, fmt.Errorf("%w: need team_name and team_abbrv columns", ErrBadTeamList)
	}

	var out []model.Team
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadTeamList, line, err)
		}
		if name >= len(rec) || abbrev >= len(rec) {
			return nil, fmt.Errorf("%w: line %d: short record", ErrBadTeamList, line)
		}
		t := model.Team{Name: rec[name], Abbrev: rec[abbrev]}
		if okDir && direction < len(rec) && strings.TrimSpace(rec[direction]) != "" {
			if t.NormalDirection, err = strconv.ParseBool(strings.TrimSpace(rec[direction])); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrBadTeamList, line, err)
			}
		}
		out = append(out, t)
	}
}
