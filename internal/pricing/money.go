package pricing

import "math"

// Round2 rounds to currency-minor-unit precision. Applied after every
// arithmetic step so the preview and settlement paths agree to the cent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
