// AngelaMos | 2026
// aggregate.go

package product

import (
	"math"
)

// AggregateRatings computes the product's rating summary from the full
// set of review ratings. The average is rounded to two decimal places;
// with no reviews both values are zero.
func AggregateRatings(ratings []int) (average float64, count int) {
	count = len(ratings)
	if count == 0 {
		return 0, 0
	}

	var sum int
	for _, rating := range ratings {
		sum += rating
	}

	average = math.Round(float64(sum)/float64(count)*100) / 100

	return average, count
}
