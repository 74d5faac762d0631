package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/rinkstats/internal/adapters/repository"
	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/smartystreets/goconvey/convey"
)

var matchup = model.Matchup{
	Away: model.Team{Name: "Montréal Canadiens", Abbrev: "MTL"},
	Home: model.Team{Name: "Tampa Bay Lightning", Abbrev: "TBL", NormalDirection: true},
}

func play(typ model.EventType, team string, period int, pt string) model.RawEvent {
	return model.RawEvent{EventType: string(typ), TeamFor: team, Period: period, PeriodTime: pt}
}

func report(t *testing.T, gameID string, homeGoals int) *gamestats.Report {
	t.Helper()
	x, y := 70.0, -12.0
	shot := play(model.EventShot, "MTL", 1, "03:00")
	shot.X, shot.Y = &x, &y
	plays := []model.RawEvent{play(model.EventFaceoff, "TBL", 1, "00:00"), shot}
	for i := 0; i < homeGoals; i++ {
		g := play(model.EventGoal, "TBL", 2, "05:0"+string(rune('0'+i)))
		g.Player1 = "Brayden Point"
		plays = append(plays, g)
	}
	plays = append(plays, play(model.EventPeriodEnd, "", 3, "20:00"))

	r, err := gamestats.New().Compute(context.Background(), gamestats.Input{GameID: gameID, Matchup: matchup, Plays: plays})
	if err != nil {
		t.Fatalf("compute %s: %v", gameID, err)
	}
	return r
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	first := report(t, "2021030416", 2)
	second := report(t, "2021030415", 1)

	stores := []struct {
		name string
		open func() repository.Store
	}{
		{"memory", func() repository.Store { return repository.NewMemoryStore() }},
		{"sqlite", func() repository.Store {
			s, err := repository.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "rinkstats.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		}},
	}

	for _, st := range stores {
		convey.Convey("Given an empty "+st.name+" store", t, func() {
			s := st.open()
			defer func() { _ = s.Close() }()

			convey.So(s.Count(ctx), convey.ShouldEqual, 0)

			convey.Convey("When reading an unknown game", func() {
				_, err := s.Get(ctx, "2021030411")

				convey.Convey("Then it is not found", func() {
					convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
				})
			})

			convey.Convey("When saving a report without a game id", func() {
				err := s.Put(ctx, &gamestats.Report{})

				convey.Convey("Then it is rejected", func() {
					convey.So(errors.Is(err, repository.ErrInvalidReport), convey.ShouldBeTrue)
				})
			})

			convey.Convey("When two games are saved", func() {
				convey.So(s.Put(ctx, first), convey.ShouldBeNil)
				convey.So(s.Put(ctx, second), convey.ShouldBeNil)

				convey.Convey("Then both are counted and listed by game id", func() {
					convey.So(s.Count(ctx), convey.ShouldEqual, 2)
					list, err := s.List(ctx, 0)
					convey.So(err, convey.ShouldBeNil)
					convey.So(list, convey.ShouldHaveLength, 2)
					convey.So(list[0].GameID, convey.ShouldEqual, "2021030415")
					convey.So(list[1].GameID, convey.ShouldEqual, "2021030416")
					convey.So(list[1].Home, convey.ShouldEqual, "TBL")
					convey.So(list[1].Away, convey.ShouldEqual, "MTL")
					convey.So(list[1].Score, convey.ShouldResemble, [2]int{0, 2})
					convey.So(list[1].Winner, convey.ShouldEqual, "TBL")
					convey.So(list[1].Type, convey.ShouldEqual, summary.PostSeason)
					convey.So(list[1].ComputedAt.Equal(first.ComputedAt), convey.ShouldBeTrue)
				})

				convey.Convey("Then a limit truncates the listing", func() {
					list, err := s.List(ctx, 1)
					convey.So(err, convey.ShouldBeNil)
					convey.So(list, convey.ShouldHaveLength, 1)
					_, err = s.List(ctx, -1)
					convey.So(errors.Is(err, repository.ErrInvalidLimit), convey.ShouldBeTrue)
				})

				convey.Convey("Then the report reads back intact", func() {
					got, err := s.Get(ctx, "2021030416")
					convey.So(err, convey.ShouldBeNil)
					convey.So(got.Game, convey.ShouldResemble, first.Game)
					convey.So(got.Final, convey.ShouldResemble, first.Final)
					convey.So(got.Events, convey.ShouldResemble, first.Events)
					convey.So(got.Intervals, convey.ShouldResemble, first.Intervals)
					convey.So(got.Momentum, convey.ShouldResemble, first.Momentum)
					convey.So(got.Rolling, convey.ShouldHaveLength, len(first.Rolling))
					convey.So(got.Rolling[0].Stat, convey.ShouldEqual, first.Rolling[0].Stat)
					line, ok := got.Summary.Line(summary.GameTotal, model.Home)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(line.Value(counters.Goals), convey.ShouldEqual, 2)
					convey.So(got.Goals.Goals[model.Home][1].Scorer, convey.ShouldEqual, "Brayden Point")
					convey.So(got.Rink.Groups[model.Away], convey.ShouldResemble, first.Rink.Groups[model.Away])
					convey.So(got.Series, convey.ShouldResemble, first.Series)
					last := got.Series.Len() - 1
					convey.So(got.Series.At(model.Home, counters.Goals, last), convey.ShouldEqual, 2)
					convey.So(got.Series.ShotDifferential[last], convey.ShouldEqual, 1)
				})

				convey.Convey("Then saving the same game again replaces it", func() {
					convey.So(s.Put(ctx, report(t, "2021030416", 3)), convey.ShouldBeNil)
					convey.So(s.Count(ctx), convey.ShouldEqual, 2)
					got, err := s.Get(ctx, "2021030416")
					convey.So(err, convey.ShouldBeNil)
					convey.So(got.Game.Score, convey.ShouldResemble, [2]int{0, 3})
				})
			})
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	convey.Convey("Given a sqlite store on disk", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "rinkstats.db")
		s, err := repository.NewSQLiteStore(ctx, path, repository.WithBusyTimeout(1e9))
		convey.So(err, convey.ShouldBeNil)
		convey.So(s.Put(ctx, report(t, "2021020001", 1)), convey.ShouldBeNil)
		convey.So(s.Close(), convey.ShouldBeNil)

		convey.Convey("When it is opened again", func() {
			s, err := repository.NewSQLiteStore(ctx, path)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = s.Close() }()

			convey.Convey("Then earlier games are still there", func() {
				convey.So(s.Count(ctx), convey.ShouldEqual, 1)
				got, err := s.Get(ctx, "2021020001")
				convey.So(err, convey.ShouldBeNil)
				convey.So(got.Game.Type, convey.ShouldEqual, summary.RegularSeason)
			})
		})
	})
}
