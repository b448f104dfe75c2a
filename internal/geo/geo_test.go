package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irrigation-planner/internal/geo"
)

func TestDistanceMeters(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Zero(t, geo.DistanceMeters(19.076, 72.877, 19.076, 72.877))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := geo.DistanceMeters(19.076, 72.877, 18.520, 73.856)
		d2 := geo.DistanceMeters(18.520, 73.856, 19.076, 72.877)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("known distance", func(t *testing.T) {
		// Mumbai to Pune, roughly 120 km great-circle.
		d := geo.DistanceMeters(19.076, 72.877, 18.520, 73.856)
		assert.InDelta(t, 120_000, d, 3_000)
	})

	t.Run("short distance", func(t *testing.T) {
		// One arc-second of latitude is about 30.9 m.
		d := geo.DistanceMeters(20.0, 75.0, 20.0+1.0/3600.0, 75.0)
		assert.InDelta(t, 30.9, d, 0.2)
	})
}

func TestCentroid(t *testing.T) {
	t.Run("square", func(t *testing.T) {
		ring := []geo.LatLng{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 2},
			{Lat: 2, Lng: 2},
			{Lat: 2, Lng: 0},
		}
		c, ok := geo.Centroid(ring)
		require.True(t, ok)
		assert.InDelta(t, 1.0, c.Lat, 1e-9)
		assert.InDelta(t, 1.0, c.Lng, 1e-9)
	})

	t.Run("closed ring counts closing vertex once", func(t *testing.T) {
		open := []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}
		closed := append(append([]geo.LatLng{}, open...), open[0])

		c1, ok := geo.Centroid(open)
		require.True(t, ok)
		c2, ok := geo.Centroid(closed)
		require.True(t, ok)
		assert.Equal(t, c1, c2)
	})

	t.Run("empty ring", func(t *testing.T) {
		_, ok := geo.Centroid(nil)
		assert.False(t, ok)
	})
}

func TestPointInPolygon(t *testing.T) {
	ring := []geo.LatLng{
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 11},
		{Lat: 11, Lng: 11},
		{Lat: 11, Lng: 10},
	}

	assert.True(t, geo.PointInPolygon(10.5, 10.5, ring))
	assert.False(t, geo.PointInPolygon(12, 10.5, ring))
	assert.False(t, geo.PointInPolygon(10.5, 9, ring))
	assert.False(t, geo.PointInPolygon(10.5, 10.5, ring[:2]))
}

func TestRingAreaSquareMeters(t *testing.T) {
	t.Run("hectare square at equator", func(t *testing.T) {
		// 100 m is about 0.000898 degrees at the equator.
		d := 100.0 / 111_320.0
		ring := []geo.LatLng{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: d},
			{Lat: d, Lng: d},
			{Lat: d, Lng: 0},
		}
		area := geo.RingAreaSquareMeters(ring)
		assert.InDelta(t, 10_000, area, 100)
	})

	t.Run("degenerate rings", func(t *testing.T) {
		assert.Zero(t, geo.RingAreaSquareMeters(nil))
		assert.Zero(t, geo.RingAreaSquareMeters([]geo.LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}))
	})
}

func TestRingBounds(t *testing.T) {
	ring := []geo.LatLng{
		{Lat: 19.0, Lng: 72.8},
		{Lat: 19.2, Lng: 72.9},
		{Lat: 19.1, Lng: 72.7},
	}

	b, ok := geo.RingBounds(ring)
	require.True(t, ok)
	assert.Equal(t, 19.0, b.MinLat)
	assert.Equal(t, 19.2, b.MaxLat)
	assert.Equal(t, 72.7, b.MinLng)
	assert.Equal(t, 72.9, b.MaxLng)

	_, ok = geo.RingBounds(nil)
	assert.False(t, ok)
}

func TestBoundsExpand(t *testing.T) {
	b := geo.Bounds{MinLat: 19.0, MinLng: 72.8, MaxLat: 19.2, MaxLng: 72.9}
	grown := b.Expand(1000)

	assert.Less(t, grown.MinLat, b.MinLat)
	assert.Less(t, grown.MinLng, b.MinLng)
	assert.Greater(t, grown.MaxLat, b.MaxLat)
	assert.Greater(t, grown.MaxLng, b.MaxLng)
	// 1000 m of latitude is about 0.009 degrees.
	assert.InDelta(t, 0.009, b.MinLat-grown.MinLat, 0.001)
}
