package console

import (
	"math"
	"math/rand"
	"time"

	"github.com/radiusdt/ads-console/internal/models"
)

const (
	DefaultSeriesDays = 30

	trendStart        = 500.0
	trendFloor        = 100.0
	slowStartEnd      = 5  // days [0,5) grow slowly
	growthEnd         = 15 // days [5,15) grow explosively, then plateau
	laggedShare       = 0.6
	firstDayPredScale = 0.8
)

// SeriesGenerator synthesizes the daily report series. The shape is fixed
// (slow start, explosive growth, plateau) and the magnitudes come from rng.
type SeriesGenerator struct {
	rng  *rand.Rand
	days int
}

// NewSeriesGenerator returns a generator producing days+1 points. A nil rng
// is replaced by a time-seeded one.
func NewSeriesGenerator(rng *rand.Rand, days int) *SeriesGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if days <= 0 {
		days = DefaultSeriesDays
	}
	return &SeriesGenerator{rng: rng, days: days}
}

func (g *SeriesGenerator) Days() int { return g.days }

// uniform draws from [lo, hi).
func (g *SeriesGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Trend returns the impressions trend, oldest day first.
func (g *SeriesGenerator) Trend() []float64 {
	n := g.days + 1
	out := make([]float64, 0, n)
	current := trendStart
	for i := 0; i < n; i++ {
		switch {
		case i < slowStartEnd:
			current += g.uniform(0, 50)
		case i < growthEnd:
			current += g.uniform(800, 1400)
		default:
			current += g.uniform(-200, 200)
		}
		daily := current * g.uniform(0.9, 1.1)
		out = append(out, math.Floor(math.Max(trendFloor, daily)))
	}
	return out
}

// Generate builds the series ending on today's date. Clicks follow the same
// day's impressions; orders follow a blend weighted towards the previous
// day, modelling a one-day conversion lag.
func (g *SeriesGenerator) Generate(today time.Time) []models.DailySeriesPoint {
	trend := g.Trend()
	y, m, d := today.Date()
	day0 := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	out := make([]models.DailySeriesPoint, 0, len(trend))
	for i, imp := range trend {
		prev := imp * firstDayPredScale
		if i > 0 {
			prev = trend[i-1]
		}
		effective := imp*(1-laggedShare) + prev*laggedShare

		clicks := math.Floor(imp * g.uniform(0.025, 0.035))
		orders := math.Floor(effective * g.uniform(0.003, 0.004))
		sales := models.Round2(orders * g.uniform(35, 50))
		spend := models.Round2(clicks * g.uniform(0.4, 0.7))

		date := day0.AddDate(0, 0, -(g.days - i))
		out = append(out, models.DailySeriesPoint{
			Date:        date,
			Label:       date.Format("1/2"),
			Impressions: imp,
			Clicks:      clicks,
			Orders:      orders,
			Sales:       sales,
			Spend:       spend,
		})
	}
	return out
}
