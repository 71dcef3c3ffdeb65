package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogmetrics/models"
)

func TestSnapshotPeriod(t *testing.T) {
	t.Parallel()

	// 2024-01-10 was a Wednesday.
	now := time.Date(2024, time.January, 10, 3, 15, 0, 0, time.UTC)

	tests := []struct {
		name         string
		snapshotType string
		wantStart    time.Time
		wantEnd      time.Time
	}{
		{
			name:         "daily covers yesterday",
			snapshotType: models.SnapshotDaily,
			wantStart:    time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:      time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "weekly covers the previous Monday-to-Monday week",
			snapshotType: models.SnapshotWeekly,
			wantStart:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:      time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "monthly covers the previous calendar month",
			snapshotType: models.SnapshotMonthly,
			wantStart:    time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "unknown type falls back to daily",
			snapshotType: "hourly",
			wantStart:    time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:      time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, end := SnapshotPeriod(tt.snapshotType, now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestSnapshotPeriod_BoundsAreHalfOpenAndContiguous(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	for _, st := range []string{models.SnapshotDaily, models.SnapshotWeekly, models.SnapshotMonthly} {
		start, end := SnapshotPeriod(st, now)
		assert.True(t, start.Before(end), "type %s", st)
		assert.False(t, end.After(now), "type %s: period must be complete", st)
	}
}
