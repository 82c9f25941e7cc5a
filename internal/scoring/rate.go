package scoring

import "math"

const (
	skillCap  = 20
	minRating = 4
	maxRating = 10
)

// Rate maps a skill count onto a 4..10 quality rating: half the count, rounded half to
// even, plus five.
func Rate(skillCount int) int {
	scaled := int(math.RoundToEven(float64(skillCount) / skillCap * 10))
	return min(maxRating, max(minRating, scaled+5))
}
