// Command recap computes saved games from a data directory and prints their
// game-total lines, optionally aggregated as a series.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/okian/rinkstats/internal/adapters/source"
	"github.com/okian/rinkstats/internal/adapters/teams"
	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/okian/rinkstats/pkg/logger"
)

var errNoGames = errors.New("no games selected: pass -season or -games")

type options struct {
	dataDir     string
	teamsCSV    string
	season      string
	games       string
	concurrency int
	series      bool
	noFighting  bool
}

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Stderr.WriteString("recap: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("recap", flag.ContinueOnError)
	fs.StringVar(&o.dataDir, "data", "Data", "root of saved games, laid out as <season>/<game_id>/")
	fs.StringVar(&o.teamsCSV, "teams", "teamList.csv", "team list CSV with team_name, team_abbrv and normal_direct_of_play")
	fs.StringVar(&o.season, "season", "", "compute every saved game of this season, e.g. 2021")
	fs.StringVar(&o.games, "games", "", "comma-separated game ids")
	fs.IntVar(&o.concurrency, "concurrency", runtime.NumCPU(), "games computed at once")
	fs.BoolVar(&o.series, "series", false, "aggregate the games as one series")
	fs.BoolVar(&o.noFighting, "no-fighting", false, "skip fighting majors in the penalty walk")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	return o, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	log := logger.Get().Named("recap")

	dir, err := loadTeams(o.teamsCSV)
	if err != nil {
		return err
	}
	src := source.NewDir(o.dataDir)
	ids, err := selectGames(ctx, src, o)
	if err != nil {
		return err
	}

	engine := gamestats.New(
		gamestats.WithLogger(log.Named("engine")),
		gamestats.WithFightingMajors(!o.noFighting),
	)
	reports := make([]*gamestats.Report, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			game, err := src.Load(gctx, id)
			if err != nil {
				return err
			}
			m, err := dir.Matchup(game.AwayTeam, game.HomeTeam)
			if err != nil {
				return fmt.Errorf("game %s: %w", id, err)
			}
			rep, err := engine.Compute(gctx, gamestats.Input{GameID: id, Matchup: m, Plays: game.Plays})
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info(ctx, "games computed", logger.Int("games", len(reports)))

	if o.series {
		recaps := make([]summary.Recap, len(reports))
		for i, r := range reports {
			recaps[i] = r.Recap()
		}
		s, err := summary.Series(recaps)
		if err != nil {
			return err
		}
		return printSeries(out, s)
	}
	for _, r := range reports {
		if err := printGame(out, r); err != nil {
			return err
		}
	}
	return nil
}

func loadTeams(path string) (*teams.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	list, err := teams.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return teams.New(list)
}

func selectGames(ctx context.Context, src *source.Dir, o options) ([]string, error) {
	var ids []string
	for _, id := range strings.Split(o.games, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if o.season != "" {
		season, err := src.Season(ctx, o.season)
		if err != nil {
			return nil, err
		}
		ids = append(ids, season...)
	}
	if len(ids) == 0 {
		return nil, errNoGames
	}
	return ids, nil
}

var columns = []counters.Stat{
	counters.Goals,
	counters.Shots,
	counters.ShotAttempts,
	counters.Hits,
	counters.FaceoffWins,
	counters.Takeaways,
	counters.Giveaways,
	counters.PIM,
	counters.PPG,
	counters.SHG,
}

func header(w io.Writer, first string) {
	fmt.Fprint(w, first)
	for _, s := range columns {
		fmt.Fprintf(w, "\t%s", s)
	}
	fmt.Fprintln(w, "\tSh%\tFO%")
}

func printGame(out io.Writer, r *gamestats.Report) error {
	g := r.Game
	fmt.Fprintf(out, "%s  %s  %s %d @ %s %d", g.GameID, g.Type,
		g.Matchup.Away.Abbrev, g.Score[model.Away], g.Matchup.Home.Abbrev, g.Score[model.Home])
	switch {
	case g.Shootout:
		fmt.Fprint(out, " (SO)")
	case g.Overtime:
		fmt.Fprint(out, " (OT)")
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header(w, "Team")
	for _, side := range []model.Side{model.Home, model.Away} {
		l, ok := r.Summary.Line(summary.GameTotal, side)
		if !ok {
			continue
		}
		fmt.Fprint(w, l.Team)
		for _, s := range columns {
			fmt.Fprintf(w, "\t%d", l.Values[s])
		}
		fmt.Fprintf(w, "\t%.1f\t%.1f\n", l.ShotPct, l.FaceoffPct)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out)
	return err
}

func printSeries(out io.Writer, s summary.SeriesReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tGame\tAway\tHome\tScore\tShots\tWinner\t")
	for _, g := range s.Games {
		suffix := ""
		switch {
		case g.Shootout:
			suffix = " SO"
		case g.Overtime:
			suffix = " OT"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d-%d%s\t%d-%d\t%s\t\n",
			g.Number, g.GameID, g.Away, g.Home, g.AwayScore, g.HomeScore, suffix, g.AwayShots, g.HomeShots, g.Winner)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	header(w, "Team\tW")
	for _, t := range s.Teams {
		fmt.Fprintf(w, "%s\t%d", t.Team, t.Wins)
		for _, st := range columns {
			fmt.Fprintf(w, "\t%d", t.Values[st])
		}
		fmt.Fprintf(w, "\t%.1f\t%.1f\n", t.ShotPct, t.FaceoffPct)
	}
	return w.Flush()
}
