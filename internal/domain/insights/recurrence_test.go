package insights

import (
	"testing"
	"time"
)

func TestMonthlyGapDetector(t *testing.T) {
	detector := NewMonthlyGapDetector()

	occ := func(y int, m time.Month, d int, amount float64) Occurrence {
		return Occurrence{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Amount: amount}
	}

	tests := []struct {
		name        string
		occurrences []Occurrence
		wantOK      bool
		wantAmount  float64
		wantDate    string
	}{
		{
			name: "thirty day gap is recurring",
			occurrences: []Occurrence{
				occ(2024, 6, 1, 15.99),
				occ(2024, 5, 2, 15.99),
				occ(2024, 4, 2, 15.99),
			},
			wantOK:     true,
			wantAmount: 15.99,
			wantDate:   "2024-07-01",
		},
		{
			name: "gap exactly at lower bound is rejected",
			occurrences: []Occurrence{
				occ(2024, 6, 26, 20),
				occ(2024, 6, 1, 20),
				occ(2024, 5, 7, 20),
			},
			wantOK: false,
		},
		{
			name: "gap exactly at upper bound is rejected",
			occurrences: []Occurrence{
				occ(2024, 6, 5, 20),
				occ(2024, 5, 1, 20),
				occ(2024, 3, 27, 20),
			},
			wantOK: false,
		},
		{
			name: "weekly charges are not bills",
			occurrences: []Occurrence{
				occ(2024, 6, 22, 8),
				occ(2024, 6, 15, 8),
				occ(2024, 6, 8, 8),
			},
			wantOK: false,
		},
		{
			name: "fewer than three occurrences",
			occurrences: []Occurrence{
				occ(2024, 6, 1, 50),
				occ(2024, 5, 2, 50),
			},
			wantOK: false,
		},
		{
			name: "refund amounts count at magnitude",
			occurrences: []Occurrence{
				occ(2024, 6, 1, 10),
				occ(2024, 5, 2, -20),
				occ(2024, 4, 2, 30),
			},
			wantOK:     true,
			wantAmount: 20,
			wantDate:   "2024-07-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detector.Detect(tt.occurrences)
			if ok != tt.wantOK {
				t.Fatalf("Detect() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if got.ExpectedAmount != tt.wantAmount {
				t.Errorf("Detect() amount = %v, want %v", got.ExpectedAmount, tt.wantAmount)
			}
			if d := got.ExpectedDate.Format("2006-01-02"); d != tt.wantDate {
				t.Errorf("Detect() date = %q, want %q", d, tt.wantDate)
			}
		})
	}
}
