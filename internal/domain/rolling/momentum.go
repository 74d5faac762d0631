package rolling

import (
	"fmt"
	"math"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/model"
)

// Moving-average lengths in grid points.
const (
	ShortAverage = 12
	LongAverage  = 60
)

// Weights scales each weighted prior-5 stat in the momentum score.
type Weights struct {
	Goal    float64 `json:"goal" koanf:"goal"`
	Shot    float64 `json:"shot" koanf:"shot"`
	Hit     float64 `json:"hit" koanf:"hit"`
	Attempt float64 `json:"attempt" koanf:"attempt"`
}

// DefaultWeights returns the standard momentum weights.
func DefaultWeights() Weights {
	return Weights{Goal: 5, Shot: 3, Hit: 2, Attempt: 1}
}

// MomentumPoint is the momentum state at one grid point. Away averages are
// stored negated; Net is computed before negation.
type MomentumPoint struct {
	Time         model.Clock `json:"time"`
	Score        [2]float64  `json:"score"`
	Short        [2]float64  `json:"short_ma"`
	Long         [2]float64  `json:"long_ma"`
	Net          float64     `json:"net"`
	HomeDominant float64     `json:"home_dominant"`
	AwayDominant float64     `json:"away_dominant"`
}

// Momentum combines the weighted goal, shot, hit and attempt tables.
func Momentum(tables []Table, w Weights) ([]MomentumPoint, error) {
	var src [4]Table
	for i, st := range []counters.Stat{counters.Goals, counters.Shots, counters.Hits, counters.ShotAttempts} {
		t, ok := Find(tables, st)
		if !ok {
			return nil, fmt.Errorf("momentum: %w: missing %s table", counters.ErrUnknownStat, st)
		}
		src[i] = t
	}
	goals, shots, hits, attempts := src[0], src[1], src[2], src[3]

	n := len(goals.Points[model.Home])
	var score [2][]float64
	for _, side := range model.Sides {
		score[side] = make([]float64, n)
		for g := 0; g < n; g++ {
			score[side][g] = w.Goal*goals.Points[side][g].Weighted +
				w.Shot*shots.Points[side][g].Weighted +
				w.Hit*hits.Points[side][g].Weighted +
				w.Attempt*attempts.Points[side][g].Weighted
		}
	}

	var short, long [2][]float64
	for _, side := range model.Sides {
		short[side] = trailingMean(score[side], ShortAverage)
		long[side] = trailingMean(score[side], LongAverage)
	}

	out := make([]MomentumPoint, n)
	for g := 0; g < n; g++ {
		net := round1(long[model.Home][g] - long[model.Away][g])
		out[g] = MomentumPoint{
			Time:         goals.Points[model.Home][g].Time,
			Score:        [2]float64{score[model.Away][g], score[model.Home][g]},
			Short:        [2]float64{neg(short[model.Away][g]), short[model.Home][g]},
			Long:         [2]float64{neg(long[model.Away][g]), long[model.Home][g]},
			Net:          net,
			HomeDominant: math.Max(net, 0),
			AwayDominant: math.Min(net, 0),
		}
	}
	return out, nil
}

// trailingMean averages the last n values ending at each index, over as many
// values as exist at the start of the series, rounded to one decimal.
func trailingMean(v []float64, n int) []float64 {
	out := make([]float64, len(v))
	sum := 0.0
	for i, x := range v {
		sum += x
		if i >= n {
			sum -= v[i-n]
		}
		out[i] = round1(sum / float64(min(i+1, n)))
	}
	return out
}

func neg(v float64) float64 { return 0 - v }

func round1(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
