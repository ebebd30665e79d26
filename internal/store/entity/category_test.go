package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFilters(t *testing.T) {
	c := &Category{
		ID:       7,
		Title:    "Family",
		Username: "alice",
		PrayerRequests: []*PrayerRequest{
			{ID: 1, Title: "a", Answered: false},
			{ID: 2, Title: "b", Answered: true},
			{ID: 3, Title: "c", Answered: false},
		},
	}

	unanswered := c.Unanswered()
	assert.Len(t, unanswered, 2)
	for _, r := range unanswered {
		assert.False(t, r.Answered)
	}

	answered := c.Answered()
	assert.Len(t, answered, 1)
	assert.Equal(t, int64(2), answered[0].ID)
}

func TestCategoryFiltersWithNoRequests(t *testing.T) {
	c := &Category{ID: 7}
	assert.Empty(t, c.Unanswered())
	assert.Empty(t, c.Answered())
}
