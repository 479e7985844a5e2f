// Package analytics holds the pure calculators and classifiers shared by every
// report. Nothing here touches the data store.
package analytics

import "math"

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Percentage returns part/whole*100 rounded to two decimals, or 0 for an empty whole.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(part / whole * 100)
}

// AttendancePercentage is the share of present rows among all attendance rows.
func AttendancePercentage(present, total int64) float64 {
	return Percentage(float64(present), float64(total))
}

// AverageMarks is the mean of count marks summing to sum.
func AverageMarks(sum float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	return Round2(sum / float64(count))
}

// PassRate is the share of attempts at or above the passing mark.
func PassRate(passed, attempts int64) float64 {
	return Percentage(float64(passed), float64(attempts))
}

// FailRate is the complement of PassRate over the same attempts.
func FailRate(passed, attempts int64) float64 {
	if attempts == 0 {
		return 0
	}
	return Percentage(float64(attempts-passed), float64(attempts))
}

// StdDev is the population standard deviation derived from running sums.
func StdDev(sum, sumSquares float64, count int64) float64 {
	if count == 0 {
		return 0
	}
	n := float64(count)
	mean := sum / n
	variance := sumSquares/n - mean*mean
	if variance <= 0 {
		return 0
	}
	return Round2(math.Sqrt(variance))
}

// MarkPercentage expresses a score as a percentage of the maximum marks.
func MarkPercentage(obtained, max float64) float64 {
	return Percentage(obtained, max)
}
