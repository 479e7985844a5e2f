package analytics

import "sort"

// Bucket is a half-open interval [Min, Max). A nil Max is unbounded.
type Bucket struct {
	Label string
	Min   float64
	Max   *float64
}

// Contains reports whether v falls inside the bucket.
func (b Bucket) Contains(v float64) bool {
	if v < b.Min {
		return false
	}
	return b.Max == nil || v < *b.Max
}

// BucketCount pairs a bucket label with its population.
type BucketCount struct {
	Label string
	Count int64
}

func bound(v float64) *float64 { return &v }

var packageBuckets = []Bucket{
	{Label: "0-5 LPA", Min: 0, Max: bound(5)},
	{Label: "5-10 LPA", Min: 5, Max: bound(10)},
	{Label: "10-15 LPA", Min: 10, Max: bound(15)},
	{Label: "15-25 LPA", Min: 15, Max: bound(25)},
	{Label: "25+ LPA", Min: 25},
}

var gradeBands = []Bucket{
	{Label: "A+ (90-100)", Min: 90},
	{Label: "A (80-89)", Min: 80, Max: bound(90)},
	{Label: "B (70-79)", Min: 70, Max: bound(80)},
	{Label: "C (60-69)", Min: 60, Max: bound(70)},
	{Label: "D (50-59)", Min: 50, Max: bound(60)},
	{Label: "E (40-49)", Min: 40, Max: bound(50)},
	{Label: "F (Below 40)", Min: -1e9, Max: bound(40)},
}

// PackageBucket returns the label of the bucket holding pkg. Negative values
// land in the first bucket.
func PackageBucket(pkg float64) string {
	for _, b := range packageBuckets {
		if b.Contains(pkg) {
			return b.Label
		}
	}
	return packageBuckets[0].Label
}

// PackageDistribution counts packages per bucket. Empty buckets are kept.
func PackageDistribution(packages []float64) []BucketCount {
	return distribute(packageBuckets, packages, PackageBucket)
}

// GradeBand returns the band label for a mark on a 100 scale.
func GradeBand(marks float64) string {
	for _, b := range gradeBands {
		if b.Contains(marks) {
			return b.Label
		}
	}
	return gradeBands[len(gradeBands)-1].Label
}

// GradeDistribution counts marks per grade band, best band first.
func GradeDistribution(marks []float64) []BucketCount {
	return distribute(gradeBands, marks, GradeBand)
}

func distribute(buckets []Bucket, values []float64, label func(float64) string) []BucketCount {
	index := make(map[string]int, len(buckets))
	out := make([]BucketCount, len(buckets))
	for i, b := range buckets {
		out[i] = BucketCount{Label: b.Label}
		index[b.Label] = i
	}
	for _, v := range values {
		out[index[label(v)]].Count++
	}
	return out
}

// TopByAverage returns up to limit items ordered by descending average. Equal
// averages keep their input order.
func TopByAverage[T any](items []T, average func(T) float64, limit int) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return average(sorted[i]) > average(sorted[j])
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
