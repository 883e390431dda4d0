package insights

import (
	"time"

	"github.com/shopspring/decimal"
)

// Occurrence is one dated charge at a merchant, newest first in the
// slices handed to a detector.
type Occurrence struct {
	Date   time.Time
	Amount float64
}

// Prediction is an expected upcoming charge.
type Prediction struct {
	ExpectedDate   time.Time
	ExpectedAmount float64
}

// RecurrenceDetector decides whether one merchant's charge history looks
// recurring. It is a strategy seam: a stronger statistical detector can
// replace the gap heuristic without touching any caller.
type RecurrenceDetector interface {
	// Detect receives occurrences sorted by date descending and returns
	// the prediction when a recurrence pattern is found.
	Detect(occurrences []Occurrence) (Prediction, bool)
}

// MonthlyGapDetector flags a merchant as monthly-recurring when the gap
// between its two most recent charges falls strictly between minGapDays
// and maxGapDays.
type MonthlyGapDetector struct {
	MinOccurrences int
	MinGapDays     float64
	MaxGapDays     float64
}

// NewMonthlyGapDetector returns the default heuristic: at least three
// occurrences with the latest gap inside (25, 35) days.
func NewMonthlyGapDetector() *MonthlyGapDetector {
	return &MonthlyGapDetector{
		MinOccurrences: 3,
		MinGapDays:     25,
		MaxGapDays:     35,
	}
}

var _ RecurrenceDetector = (*MonthlyGapDetector)(nil)

func (d *MonthlyGapDetector) Detect(occurrences []Occurrence) (Prediction, bool) {
	if len(occurrences) < d.MinOccurrences {
		return Prediction{}, false
	}

	gap := occurrences[0].Date.Sub(occurrences[1].Date).Hours() / 24
	if gap < 0 {
		gap = -gap
	}
	if gap <= d.MinGapDays || gap >= d.MaxGapDays {
		return Prediction{}, false
	}

	// Expected amount is the mean absolute charge over the three most
	// recent occurrences.
	sum := decimal.Zero
	for _, occ := range occurrences[:3] {
		sum = sum.Add(decimal.NewFromFloat(occ.Amount).Abs())
	}
	amount, _ := sum.Div(decimal.NewFromInt(3)).Round(2).Float64()

	return Prediction{
		ExpectedDate:   occurrences[0].Date.AddDate(0, 1, 0),
		ExpectedAmount: amount,
	}, true
}
