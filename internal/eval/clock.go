package eval

import "time"

// nowSeconds backs the Time node: the host clock read as a Float number of
// seconds, matching the resolution Print already knows how to render.
func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
