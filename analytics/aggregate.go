package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Point is one response row. Z is a count in group-by and user/country top
// modes, an author username in blog top mode, and a percent change in
// performance mode.
type Point struct {
	X string      `json:"x"`
	Y int64       `json:"y"`
	Z interface{} `json:"z"`
}

// GroupCount is one scanned row of a grouped count query.
type GroupCount struct {
	GroupID uint
	Label   string
	Total   int64
}

// MergeGroupCounts combines blog counts and view counts grouped by the same
// key into response rows. The key union of both sides is taken; a key present
// on only one side gets zero for the missing metric, and rows where both
// metrics are zero are dropped. Rows come back sorted by label so identical
// queries serialize identically.
func MergeGroupCounts(blogs, views []GroupCount) []Point {
	type row struct {
		label string
		y, z  int64
	}
	merged := make(map[uint]*row)
	for _, b := range blogs {
		merged[b.GroupID] = &row{label: b.Label, y: b.Total}
	}
	for _, v := range views {
		if r, ok := merged[v.GroupID]; ok {
			r.z = v.Total
			if r.label == "" {
				r.label = v.Label
			}
		} else {
			merged[v.GroupID] = &row{label: v.Label, z: v.Total}
		}
	}

	points := make([]Point, 0, len(merged))
	for _, r := range merged {
		if r.y == 0 && r.z == 0 {
			continue
		}
		points = append(points, Point{X: r.label, Y: r.y, Z: r.z})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].X < points[j].X })
	return points
}

// JoinTopBlogCounts turns a ranked view-count slice into response rows,
// attaching the independently grouped blog count for each key (0 when the
// key produced no blogs under the filter). Ranking order is preserved.
func JoinTopBlogCounts(top []GroupCount, blogCounts map[uint]int64) []Point {
	points := make([]Point, 0, len(top))
	for _, t := range top {
		points = append(points, Point{X: t.Label, Y: t.Total, Z: blogCounts[t.GroupID]})
	}
	return points
}

// CountBuckets tallies timestamps into calendar-period buckets.
func CountBuckets(stamps []time.Time, granularity string) map[time.Time]int64 {
	buckets := make(map[time.Time]int64)
	for _, ts := range stamps {
		buckets[TruncatePeriod(ts, granularity)]++
	}
	return buckets
}

// BuildPeriodSeries produces the performance-comparison rows: one row per
// period present in either bucket set, ascending by period start. Each row
// carries the view count and the percent change against the previous output
// row. The change is 0 for the first row and whenever the previous row's
// view count is 0, so a 0-to-N increase reports 0 rather than +Inf.
func BuildPeriodSeries(blogBuckets, viewBuckets map[time.Time]int64) []Point {
	periods := make([]time.Time, 0, len(blogBuckets)+len(viewBuckets))
	seen := make(map[time.Time]struct{}, len(blogBuckets)+len(viewBuckets))
	for p := range blogBuckets {
		periods = append(periods, p)
		seen[p] = struct{}{}
	}
	for p := range viewBuckets {
		if _, ok := seen[p]; !ok {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })

	points := make([]Point, 0, len(periods))
	var prev int64
	for i, p := range periods {
		y := viewBuckets[p]
		var z float64
		if i > 0 && prev != 0 {
			z = round2(float64(y-prev) / float64(prev) * 100)
		}
		points = append(points, Point{
			X: fmt.Sprintf("%s (%d blogs)", p.Format("2006-01-02"), blogBuckets[p]),
			Y: y,
			Z: z,
		})
		prev = y
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
