package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Software Engineer", CleanText("  Software\n\tEngineer  "))
	assert.Equal(t, "New York, NY", CleanText("New York, NY"))
	assert.Equal(t, "", CleanText("     \n "))
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2025, 6, 1, 15, 4, 5, 123_000_000, time.UTC))
	assert.Equal(t, "2025-06-01T15:04:05.123+00:00", ts)
}
