package rating

import (
	"math"
	"strconv"
)

// Formula coefficients.
const (
	impactKPRWeight = 2.13
	impactAPRWeight = 0.42
	impactOffset    = 0.41
	impactScale     = 1.5
	ratingDivisor   = 2.5
)

// Calculate converts raw counters into a MetricVector for a match that lasted
// the given number of rounds. A match with no recorded rounds is treated as a
// single round so that every rate stays finite. IMPACT and RATING never go
// below zero.
func Calculate(c Counts, rounds int) MetricVector {
	r := float64(floorRounds(rounds))
	k, a, d := float64(c.Kills), float64(c.Assists), float64(c.Deaths)

	kd := killDeath(k, d)
	kpr := k / r
	apr := a / r
	impact := impactScore(kpr, apr)

	x := math.Max(0, (kd+impact*impactScale)/ratingDivisor)

	return MetricVector{
		K:      c.Kills,
		A:      c.Assists,
		D:      c.Deaths,
		Diff:   c.Kills - c.Deaths,
		KPR:    Round2(kpr),
		DPR:    Round2(d / r),
		SVR:    Round2((r - d) / r),
		Impact: Round2(impact),
		Rating: Round2(math.Sqrt(x)),
		KD:     Round2(kd),
		Helps:  c.Assists,
	}
}

// Lifetime recomputes per-round rates from counters summed across matches.
func Lifetime(kills, assists, deaths, rounds int) Rates {
	r := float64(floorRounds(rounds))
	k, a, d := float64(kills), float64(assists), float64(deaths)
	kpr := k / r
	return Rates{
		KD:     Round2(killDeath(k, d)),
		KPR:    Round2(kpr),
		DPR:    Round2(d / r),
		SVR:    Round2((r - d) / r),
		Impact: Round2(impactScore(kpr, a/r)),
	}
}

// Round2 rounds to two decimal places. Exact ties go to the even digit,
// so 0.625 becomes 0.62 and 0.375 becomes 0.38.
func Round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

func floorRounds(rounds int) int {
	if rounds < 1 {
		return 1
	}
	return rounds
}

func killDeath(k, d float64) float64 {
	if d > 0 {
		return k / d
	}
	return k
}

func impactScore(kpr, apr float64) float64 {
	return math.Max(0, impactKPRWeight*kpr+impactAPRWeight*apr-impactOffset)
}
