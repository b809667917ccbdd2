package domain

import (
	"sort"
	"time"
)

// groupKey extracts the grouping value for the supported aggregation
// fields. Stats only ever group by status or priority.
func groupKey(b *Bug, field string) string {
	switch field {
	case "status":
		return string(b.Status)
	case "priority":
		return string(b.Priority)
	default:
		return ""
	}
}

// GroupByCount folds bugs into per-value frequency buckets, ordered by
// descending count with ascending key as tie-break so results are
// deterministic.
func GroupByCount(bugs []*Bug, field string) []GroupCount {
	counts := make(map[string]int64)
	for _, b := range bugs {
		if k := groupKey(b, field); k != "" {
			counts[k]++
		}
	}

	out := make([]GroupCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, GroupCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// GroupByCountAvgAge is GroupByCount plus the average fractional age in
// days of each bucket, measured against now.
func GroupByCountAvgAge(bugs []*Bug, field string, now time.Time) []GroupAgeCount {
	type bucket struct {
		count int64
		age   float64
	}
	buckets := make(map[string]*bucket)
	for _, b := range bugs {
		k := groupKey(b, field)
		if k == "" {
			continue
		}
		bk := buckets[k]
		if bk == nil {
			bk = &bucket{}
			buckets[k] = bk
		}
		bk.count++
		bk.age += b.AgeDays(now)
	}

	out := make([]GroupAgeCount, 0, len(buckets))
	for k, bk := range buckets {
		out = append(out, GroupAgeCount{
			Key:        k,
			Count:      bk.count,
			AvgAgeDays: bk.age / float64(bk.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
