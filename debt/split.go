package debt

import (
	"fmt"
	"math"
)

// SplitPolicy is owned by the debt rather than inferred from the first
// participant entry.
type SplitPolicy string

const (
	SplitEqual  SplitPolicy = "equal"
	SplitCustom SplitPolicy = "custom"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Split assigns per-participant amounts for a group debt.
//
// Equal policy gives every participant round2(total/count); the rounded
// shares may not sum back to the total (100.00 across 3 yields 33.33
// each, 99.99 in total). Custom policy passes the supplied amounts
// through but requires them to sum to the total within a cent.
func Split(total float64, policy SplitPolicy, participants []Participant) ([]Participant, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("no participants to split between")
	}

	out := make([]Participant, len(participants))
	copy(out, participants)

	switch policy {
	case SplitEqual:
		perPerson := Round2(total / float64(len(out)))
		for i := range out {
			out[i].Amount = perPerson
		}
	case SplitCustom:
		sum := 0.0
		for _, p := range out {
			sum += p.Amount
		}
		if math.Abs(Round2(sum)-Round2(total)) >= 0.01 {
			return nil, fmt.Errorf("custom split amounts sum to %.2f, expected %.2f", sum, total)
		}
	default:
		return nil, fmt.Errorf("unknown split policy %q", policy)
	}

	return out, nil
}
