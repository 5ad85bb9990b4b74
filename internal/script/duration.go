package script

import "strings"

const (
	wordsPerMinute = 150
	minSeconds     = 2.0
)

// EstimateSeconds approximates speaking time at 150 words per minute with a
// two second floor.
func EstimateSeconds(text string) float64 {
	words := len(strings.Fields(text))
	secs := float64(words) / wordsPerMinute * 60
	if secs < minSeconds {
		return minSeconds
	}
	return secs
}
