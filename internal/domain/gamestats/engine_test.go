package gamestats_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/penalty"
	"github.com/okian/rinkstats/internal/domain/rolling"
	"github.com/okian/rinkstats/internal/domain/summary"
	. "github.com/smartystreets/goconvey/convey"
)

var matchup = model.Matchup{
	Away: model.Team{Name: "Montréal Canadiens", Abbrev: "MTL"},
	Home: model.Team{Name: "Tampa Bay Lightning", Abbrev: "TBL"},
}

func play(typ model.EventType, team string, period int, pt string) model.RawEvent {
	return model.RawEvent{EventType: string(typ), TeamFor: team, Period: period, PeriodTime: pt}
}

func final() []model.RawEvent {
	pen := play(model.EventPenalty, "MTL", 1, "05:00")
	pen.SecondaryType, pen.Player1 = "Hooking", "Shea Weber"
	ppg := play(model.EventGoal, "TBL", 1, "06:10")
	ppg.Player1, ppg.Player2 = "Steven Stamkos", "Victor Hedman"
	return []model.RawEvent{
		play(model.EventFaceoff, "TBL", 1, "00:00"),
		play(model.EventShot, "TBL", 1, "02:00"),
		pen,
		ppg,
		play(model.EventPeriodEnd, "", 1, "20:00"),
		play(model.EventGoal, "MTL", 2, "04:00"),
		play(model.EventPeriodEnd, "", 2, "20:00"),
		play(model.EventShot, "TBL", 3, "10:00"),
		play(model.EventPeriodEnd, "", 3, "20:00"),
	}
}

func TestCompute(t *testing.T) {
	ctx := context.Background()

	Convey("Given a playoff game with a power-play goal", t, func() {
		e := gamestats.New()
		rep, err := e.Compute(ctx, gamestats.Input{GameID: "2021030415", Matchup: matchup, Plays: final()})
		So(err, ShouldBeNil)

		Convey("Then the headline report is filled in", func() {
			So(rep.GameID, ShouldEqual, "2021030415")
			So(rep.Game.Type, ShouldEqual, summary.PostSeason)
			So(rep.Game.Score, ShouldResemble, [2]int{1, 1})
			So(rep.Game.Winner, ShouldBeEmpty)
			So(rep.Events, ShouldHaveLength, 9)
			So(rep.ComputedAt.IsZero(), ShouldBeFalse)
		})

		Convey("Then final counters carry the penalty columns", func() {
			So(rep.Final[model.Home][counters.Shots], ShouldEqual, 3)
			So(rep.Final[model.Home][counters.PPG], ShouldEqual, 1)
			So(rep.Final[model.Away][counters.PIM], ShouldEqual, 2)
			So(rep.Final[model.Away][counters.MenOnIce], ShouldEqual, counters.FullStrength)
			So(rep.Intervals[model.Away], ShouldResemble, []penalty.Interval{
				{Start: model.NewClock(0, 5, 0), End: model.NewClock(0, 6, 10)},
			})
		})

		Convey("Then the period table attributes the power play to the first period", func() {
			home, ok := rep.Summary.Line("1", model.Home)
			So(ok, ShouldBeTrue)
			So(home.Value(counters.PPG), ShouldEqual, 1)
			away, _ := rep.Summary.Line("1", model.Away)
			So(away.Value(counters.PIM), ShouldEqual, 2)
			away2, _ := rep.Summary.Line("2", model.Away)
			So(away2.Value(counters.Goals), ShouldEqual, 1)
		})

		Convey("Then rolling tables and momentum cover the grid", func() {
			So(rep.Rolling, ShouldHaveLength, len(rolling.DefaultStats))
			So(rep.Momentum, ShouldHaveLength, rep.Timeline.GridLen())
			So(rep.Counters.Len(), ShouldEqual, rep.Timeline.Len())
			So(rep.Goals.Goals[model.Home][0].Scorer, ShouldEqual, "Steven Stamkos")
		})

		Convey("Then the counter series carries both sides after penalties", func() {
			at := func(m, sec int) int { return int(model.NewClock(0, m, sec) / model.GridStep) }
			So(rep.Series.Len(), ShouldEqual, rep.Timeline.GridLen())
			So(rep.Series.At(model.Away, counters.MenOnIce, at(5, 30)), ShouldEqual, 4)
			So(rep.Series.At(model.Home, counters.PowerPlays, at(5, 30)), ShouldEqual, 1)
			So(rep.Series.At(model.Away, counters.MenOnIce, at(6, 15)), ShouldEqual, counters.FullStrength)
			So(rep.Series.At(model.Home, counters.PPG, at(6, 15)), ShouldEqual, 1)
			So(rep.Series.ShotDifferential[at(6, 15)], ShouldEqual, 2)
			last := rep.Series.Len() - 1
			So(rep.Series.At(model.Away, counters.Shots, last), ShouldEqual, 1)
			So(rep.Series.ShotDifferential[last], ShouldEqual, 2)
		})

		Convey("Then the recap feeds a series", func() {
			series, err := summary.Series([]summary.Recap{rep.Recap()})
			So(err, ShouldBeNil)
			So(series.Teams[0].Team, ShouldEqual, "TBL")
			So(series.Teams[0].Values[counters.PPG], ShouldEqual, 1)
		})
	})

	Convey("Given fighting majors are excluded", t, func() {
		fight := play(model.EventPenalty, "MTL", 1, "05:00")
		fight.SecondaryType = "Fighting"
		plays := []model.RawEvent{fight, play(model.EventShot, "TBL", 1, "06:00")}

		included, err := gamestats.New().Compute(ctx, gamestats.Input{GameID: "2021020001", Matchup: matchup, Plays: plays})
		So(err, ShouldBeNil)
		excluded, err := gamestats.New(gamestats.WithFightingMajors(false)).Compute(ctx, gamestats.Input{GameID: "2021020001", Matchup: matchup, Plays: plays})
		So(err, ShouldBeNil)

		Convey("Then they add no penalty minutes", func() {
			So(included.Final[model.Away][counters.PIM], ShouldEqual, 5)
			So(excluded.Final[model.Away][counters.PIM], ShouldEqual, 0)
		})
	})

	Convey("Given custom weights and stats", t, func() {
		e := gamestats.New(
			gamestats.WithWeights(rolling.Weights{Goal: 1, Shot: 1, Hit: 1, Attempt: 1}),
			gamestats.WithSummaryStats(counters.Goals),
		)
		rep, err := e.Compute(ctx, gamestats.Input{GameID: "2021030415", Matchup: matchup, Plays: final()})
		So(err, ShouldBeNil)

		Convey("Then they shape the report", func() {
			So(rep.Summary.Stats, ShouldResemble, []counters.Stat{counters.Goals})
			// 02:05: one shot and one attempt in the last minute.
			So(rep.Momentum[25].Score[model.Home], ShouldEqual, 2.0)
		})
	})
}

func TestComputeErrors(t *testing.T) {
	ctx := context.Background()
	e := gamestats.New()

	Convey("Given inputs the engine rejects", t, func() {
		cases := []struct {
			name string
			in   gamestats.Input
			want error
			kind string
		}{
			{"no plays", gamestats.Input{GameID: "2021030415", Matchup: matchup}, model.ErrNoEvents, gamestats.KindNoEvents},
			{"bad game id", gamestats.Input{GameID: "abc", Matchup: matchup, Plays: final()}, summary.ErrInvalidGameID, gamestats.KindInvalidGameID},
			{"unknown play type", gamestats.Input{GameID: "2021030415", Matchup: matchup, Plays: []model.RawEvent{play("ZAMBONI", "TBL", 1, "01:00")}}, model.ErrMalformedEvent, gamestats.KindMalformedEvent},
			{"third team", gamestats.Input{GameID: "2021030415", Matchup: matchup, Plays: append(final(), play(model.EventShot, "BOS", 3, "11:00"))}, model.ErrUnresolvedOpponent, gamestats.KindUnresolvedOpponent},
			{"too many overtimes", gamestats.Input{GameID: "2021030415", Matchup: matchup, Plays: []model.RawEvent{play(model.EventShot, "TBL", 13, "01:00")}}, model.ErrUnsupportedPeriod, gamestats.KindUnsupportedPeriod},
		}
		for _, c := range cases {
			Convey("When computing with "+c.name, func() {
				_, err := e.Compute(ctx, c.in)

				Convey("Then the error carries its kind", func() {
					So(errors.Is(err, c.want), ShouldBeTrue)
					So(gamestats.ErrorKind(err), ShouldEqual, c.kind)
				})
			})
		}
	})

	Convey("Given a canceled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := e.Compute(cctx, gamestats.Input{GameID: "2021030415", Matchup: matchup, Plays: final()})

		Convey("Then the game is abandoned", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(gamestats.ErrorKind(err), ShouldEqual, gamestats.KindCanceled)
		})
	})

	Convey("Unclassified errors are internal", t, func() {
		So(gamestats.ErrorKind(errors.New("boom")), ShouldEqual, gamestats.KindInternal)
	})
}
