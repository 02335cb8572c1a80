package main

import (
	"fmt"
	"time"
)

// _timeSince renders a coarse relative timestamp ("3 days ago") for
// profile and notification listings.
func _timeSince(when time.Time) string {
	if when.IsZero() {
		return "a while ago"
	}
	elapsed := time.Since(when)
	if elapsed < time.Minute {
		return "just now"
	}
	steps := []struct {
		unit time.Duration
		name string
	}{
		{365 * 24 * time.Hour, "year"},
		{30 * 24 * time.Hour, "month"},
		{7 * 24 * time.Hour, "week"},
		{24 * time.Hour, "day"},
		{time.Hour, "hour"},
		{time.Minute, "minute"},
	}
	for _, step := range steps {
		if elapsed >= step.unit {
			count := int(elapsed / step.unit)
			if count == 1 {
				return fmt.Sprintf("1 %s ago", step.name)
			}
			return fmt.Sprintf("%d %ss ago", count, step.name)
		}
	}
	return "just now"
}
