package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel-billing-backend/utils"
)

func TestBusinessDateFor_BeforeCutoffIsYesterday(t *testing.T) {
	// 02:30 on March 11: the night audit is closing March 10.
	now := time.Date(2025, time.March, 11, 2, 30, 0, 0, time.UTC)
	date := utils.BusinessDateFor(now)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), date)
}

func TestBusinessDateFor_EdgeOfCutoff(t *testing.T) {
	justBefore := time.Date(2025, time.March, 11, 5, 59, 59, 0, time.UTC)
	assert.Equal(t, 10, utils.BusinessDateFor(justBefore).Day())

	atCutoff := time.Date(2025, time.March, 11, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 11, utils.BusinessDateFor(atCutoff).Day())
}

func TestBusinessDateFor_AfterCutoffIsToday(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), utils.BusinessDateFor(now))
}

func TestSameBusinessDay(t *testing.T) {
	a := time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 10, 23, 0, 0, 0, time.UTC)
	c := time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, utils.SameBusinessDay(a, b))
	assert.False(t, utils.SameBusinessDay(a, c))
}
