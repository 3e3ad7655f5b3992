package domain

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTitle(t *testing.T) {
	title, err := NewTitle("  Fix tap ")
	require.NoError(t, err)
	assert.Equal(t, "Fix tap", title.String())

	_, err = NewTitle("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = NewTitle(strings.Repeat("a", 256))
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestNewCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := NewCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := NewCategory("Delivery")
	require.NoError(t, err)
	assert.Equal(t, CategoryDelivery, got)

	_, err = NewCategory("gardening")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewScore(t *testing.T) {
	for _, v := range []float64{1, 2, 3, 4, 5} {
		s, err := NewScore(v)
		require.NoError(t, err)
		assert.Equal(t, Score(v), s)
	}

	for _, v := range []float64{0, 6, -1, 4.5, math.NaN()} {
		_, err := NewScore(v)
		assert.ErrorIs(t, err, ErrInvalidRating, "%v", v)
	}
}

func TestNewAvailabilityAndVehicle(t *testing.T) {
	a, err := NewAvailability("")
	require.NoError(t, err)
	assert.Equal(t, AvailabilityFullTime, a)

	_, err = NewAvailability("nights")
	assert.ErrorIs(t, err, ErrInvalidAvailability)

	v, err := NewVehicleType("")
	require.NoError(t, err)
	assert.Equal(t, VehicleNone, v)

	v, err = NewVehicleType("van")
	require.NoError(t, err)
	assert.Equal(t, VehicleVan, v)

	_, err = NewVehicleType("boat")
	assert.ErrorIs(t, err, ErrInvalidVehicleType)
}

func TestCoordinates_Validate(t *testing.T) {
	assert.NoError(t, Coordinates{Latitude: 0, Longitude: 0}.Validate())
	assert.NoError(t, Coordinates{Latitude: -90, Longitude: 180}.Validate())
	assert.ErrorIs(t, Coordinates{Latitude: 91}.Validate(), ErrInvalidCoordinates)
	assert.ErrorIs(t, Coordinates{Longitude: -181}.Validate(), ErrInvalidCoordinates)
}

func TestHelperProfile_Folds(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("completion credits earnings", func(t *testing.T) {
		p := NewHelperProfile("p", "u", now)
		p.RecordCompletion(200, now)

		assert.Equal(t, 1, p.CompletedTasks)
		assert.Equal(t, 200.0, p.Earnings.Total)
		assert.Equal(t, 200.0, p.Earnings.Pending)
		assert.Zero(t, p.Earnings.Withdrawn)
	})

	t.Run("rating follows running average", func(t *testing.T) {
		p := NewHelperProfile("p", "u", now)
		p.Rating = 4.0
		p.TotalRatings = 3

		p.RecordRating(5, now)
		assert.InDelta(t, 4.25, p.Rating, 1e-9)
		assert.Equal(t, 4, p.TotalRatings)
	})

	t.Run("first rating becomes the average", func(t *testing.T) {
		p := NewHelperProfile("p", "u", now)
		p.RecordRating(3, now)
		assert.Equal(t, 3.0, p.Rating)
		assert.Equal(t, 1, p.TotalRatings)
	})
}

func TestHelperProfile_CanAccept(t *testing.T) {
	p := NewHelperProfile("p", "u", time.Now().UTC())
	assert.ErrorIs(t, p.CanAccept(), ErrForbidden)

	p.IsApproved = true
	assert.ErrorIs(t, p.CanAccept(), ErrInvalidState)

	p.IsOnline = true
	assert.NoError(t, p.CanAccept())
}

func TestDocuments_Merge(t *testing.T) {
	d := Documents{IDProof: "id-1", Photo: "p-1"}
	merged := d.Merge(Documents{Photo: "p-2", AddressProof: "a-1"})
	assert.Equal(t, Documents{IDProof: "id-1", AddressProof: "a-1", Photo: "p-2"}, merged)
}

func TestAverageRevenue(t *testing.T) {
	assert.Zero(t, AverageRevenue(0, 0))
	assert.Zero(t, AverageRevenue(100, 0))
	assert.Equal(t, 50.0, AverageRevenue(100, 2))
}
