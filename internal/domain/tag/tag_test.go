package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTag() *Tag {
	return &Tag{
		LocationName: "Main Library",
		Category:     CategoryIssue,
		Coordinates:  Coordinates{Latitude: 25.02, Longitude: 121.53},
	}
}

func TestTagValidate(t *testing.T) {
	t.Run("valid tag passes", func(t *testing.T) {
		assert.NoError(t, validTag().Validate())
	})

	t.Run("missing location name", func(t *testing.T) {
		tg := validTag()
		tg.LocationName = ""
		assert.ErrorIs(t, tg.Validate(), ErrMissingLocationName)
	})

	t.Run("unknown category", func(t *testing.T) {
		tg := validTag()
		tg.Category = Category("graffiti")
		assert.ErrorIs(t, tg.Validate(), ErrInvalidCategory)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		tg := validTag()
		tg.Coordinates.Latitude = 91
		assert.ErrorIs(t, tg.Validate(), ErrInvalidCoordinates)
	})

	t.Run("longitude out of range", func(t *testing.T) {
		tg := validTag()
		tg.Coordinates.Longitude = -181
		assert.ErrorIs(t, tg.Validate(), ErrInvalidCoordinates)
	})
}

func TestCategoryPolicy(t *testing.T) {
	cases := []struct {
		category      Category
		defaultStatus string
		countsVotes   bool
	}{
		{CategoryFacility, "confirmed", false},
		{CategoryIssue, "unresolved", true},
		{CategoryDynamic, "quiet", false},
	}

	for _, tc := range cases {
		t.Run(string(tc.category), func(t *testing.T) {
			assert.True(t, tc.category.Valid())
			assert.Equal(t, tc.defaultStatus, tc.category.DefaultStatusName())
			assert.Equal(t, tc.countsVotes, tc.category.CountsVotes())
		})
	}

	assert.False(t, Category("other").Valid())
}
