package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/rinkstats/internal/adapters/source"
	"github.com/okian/rinkstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDir(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty data directory", t, func() {
		root := t.TempDir()
		d := source.NewDir(root)

		Convey("When a game is saved", func() {
			x := 54.0
			shot := model.RawEvent{EventType: "SHOT", TeamFor: "TBL", Period: 1, PeriodTime: "01:30", Player1: "Nikita Kucherov", X: &x}
			g := source.Game{GameID: "2021030415", AwayTeam: "Montréal Canadiens", HomeTeam: "Tampa Bay Lightning", Plays: []model.RawEvent{shot}}
			So(d.Save(ctx, g), ShouldBeNil)

			Convey("Then it lands under its season", func() {
				_, err := os.Stat(filepath.Join(root, "2021", "2021030415", source.PlaysFile))
				So(err, ShouldBeNil)
			})

			Convey("Then it loads back", func() {
				got, err := d.Load(ctx, "2021030415")
				So(err, ShouldBeNil)
				So(got, ShouldResemble, g)
			})

			Convey("Then the season lists it", func() {
				So(d.Save(ctx, source.Game{GameID: "2021030411"}), ShouldBeNil)
				ids, err := d.Season(ctx, "2021")
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"2021030411", "2021030415"})
			})
		})

		Convey("When a game was never saved", func() {
			_, err := d.Load(ctx, "2021030499")

			Convey("Then it is not found", func() {
				So(errors.Is(err, source.ErrGameNotFound), ShouldBeTrue)
			})
		})

		Convey("When the plays file is not JSON", func() {
			dir := filepath.Join(root, "2021", "2021030412")
			So(os.MkdirAll(dir, 0o755), ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, source.GameFile), []byte(`{}`), 0o644), ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, source.PlaysFile), []byte(`[{`), 0o644), ShouldBeNil)
			_, err := d.Load(ctx, "2021030412")

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, source.ErrGameNotFound), ShouldBeFalse)
			})
		})

		Convey("When the id would escape the directory", func() {
			_, err := d.Load(ctx, "../../etc")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, source.ErrInvalidGameID), ShouldBeTrue)
			})
		})

		Convey("When listing a season with no games", func() {
			ids, err := d.Season(ctx, "1999")

			Convey("Then the list is empty", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldBeEmpty)
			})
		})
	})
}
