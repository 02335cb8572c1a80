package main

import (
	"testing"
	"time"
)

func TestTimeSince(t *testing.T) {
	now := time.Now()
	cases := map[string]struct {
		when     time.Time
		expected string
	}{
		"zero":    {time.Time{}, "a while ago"},
		"seconds": {now.Add(-30 * time.Second), "just now"},
		"minutes": {now.Add(-5 * time.Minute), "5 minutes ago"},
		"one day": {now.Add(-25 * time.Hour), "1 day ago"},
		"weeks":   {now.Add(-15 * 24 * time.Hour), "2 weeks ago"},
		"years":   {now.Add(-2 * 365 * 24 * time.Hour), "2 years ago"},
	}
	for name, tc := range cases {
		if rendered := _timeSince(tc.when); rendered != tc.expected {
			t.Fatalf("%s: expected %q, found %q", name, tc.expected, rendered)
		}
	}
}
