package utils

import "math"

// Rate returns part/total as a percentage rounded to two decimals, 0 when
// total is zero.
func Rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
