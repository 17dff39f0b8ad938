// Package pace decides whether today's earned points are ahead of, on, or
// behind the rate needed to hit the daily target.
package pace

import "time"

// DefaultTolerance is the band around the expected rate that still counts
// as on track.
const DefaultTolerance = 0.15

// Status is the outcome of a pace check.
type Status int

const (
	OnTrack Status = iota
	Ahead
	Behind
)

func (s Status) String() string {
	switch s {
	case Ahead:
		return "ahead"
	case Behind:
		return "behind"
	default:
		return "on track"
	}
}

// Glyph is the single-character marker shown after the points segment.
func (s Status) Glyph() string {
	switch s {
	case Ahead:
		return "+"
	case Behind:
		return "-"
	default:
		return "="
	}
}

// Day is the tracked part of a day, as offsets from local midnight.
type Day struct {
	Start time.Duration
	End   time.Duration
}

// ElapsedFraction returns how much of the tracked day has passed at now,
// clamped to [0, 1]. A day with End <= Start is treated as already over.
func (d Day) ElapsedFraction(now time.Time) float64 {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sinceMidnight := now.Sub(midnight)

	length := d.End - d.Start
	if length <= 0 {
		return 1
	}

	f := float64(sinceMidnight-d.Start) / float64(length)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Expected is the number of points that should be earned by now.
func Expected(target int, fraction float64) float64 {
	return float64(target) * fraction
}

// Classify compares earned against expected with a symmetric tolerance.
// For a fixed expected value the result only moves from Behind to OnTrack
// to Ahead as earned grows.
func Classify(earned int, expected, tolerance float64) Status {
	e := float64(earned)
	if expected <= 0 {
		if earned > 0 {
			return Ahead
		}
		return OnTrack
	}

	switch {
	case e >= expected*(1+tolerance):
		return Ahead
	case e <= expected*(1-tolerance):
		return Behind
	default:
		return OnTrack
	}
}
