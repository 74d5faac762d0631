package types_test

import (
	"errors"
	"testing"

	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSubmission_Validate(t *testing.T) {
	plays := []model.RawEvent{{EventType: "FACEOFF", TeamFor: "TBL", Period: 1, PeriodTime: "00:00"}}

	Convey("Given submissions", t, func() {
		cases := []struct {
			name string
			sub  types.Submission
			want error
		}{
			{"named teams", types.Submission{GameID: "2021030415", AwayTeam: "MTL", HomeTeam: "TBL", Plays: plays}, nil},
			{"a full matchup", types.Submission{GameID: "2021030415", Matchup: &model.Matchup{}, Plays: plays}, nil},
			{"no game id", types.Submission{GameID: " ", AwayTeam: "MTL", HomeTeam: "TBL", Plays: plays}, types.ErrMissingGameID},
			{"one team", types.Submission{GameID: "2021030415", HomeTeam: "TBL", Plays: plays}, types.ErrMissingTeams},
			{"no plays", types.Submission{GameID: "2021030415", AwayTeam: "MTL", HomeTeam: "TBL"}, types.ErrMissingPlays},
		}
		for _, c := range cases {
			Convey("When validating "+c.name, func() {
				err := c.sub.Validate()

				Convey("Then the result matches", func() {
					if c.want == nil {
						So(err, ShouldBeNil)
					} else {
						So(errors.Is(err, c.want), ShouldBeTrue)
					}
				})
			})
		}
	})
}
