package riskfolio

import "fmt"

// Percent is a percentage value (42.5 means 42.5%).
type Percent float64

// FromFraction converts a fractional value (0.425) to a Percent (42.5).
func FromFraction(f float64) Percent { return Percent(100 * f) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
