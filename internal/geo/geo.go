package geo

import "math"

const earthRadiusMeters = 6371000.0

// LatLng is a WGS84 coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceMeters returns the great-circle (haversine) distance between two
// points. It is non-negative, symmetric, and zero for identical points.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Centroid returns the arithmetic mean of the ring's vertices. This is an
// approximation, not an area-weighted centroid; it is adequate for the small,
// roughly convex sections drawn on a single farm. A closing vertex equal to
// the first is ignored. Returns false for an empty ring.
func Centroid(ring []LatLng) (LatLng, bool) {
	ring = openRing(ring)
	if len(ring) == 0 {
		return LatLng{}, false
	}

	var sumLat, sumLng float64
	for _, p := range ring {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(ring))
	return LatLng{Lat: sumLat / n, Lng: sumLng / n}, true
}

// PointInPolygon reports whether the point lies inside the ring using the
// standard ray-casting test. Points on an edge may fall on either side.
func PointInPolygon(lat, lng float64, ring []LatLng) bool {
	ring = openRing(ring)
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		pi, pj := ring[i], ring[j]
		if (pi.Lng > lng) != (pj.Lng > lng) &&
			lat < (pj.Lat-pi.Lat)*(lng-pi.Lng)/(pj.Lng-pi.Lng)+pi.Lat {
			inside = !inside
		}
		j = i
	}
	return inside
}

// RingAreaSquareMeters computes the ring's area with the shoelace formula on
// an equirectangular projection centered on the ring. Good to well under a
// percent at field scale, which is all the cost model needs.
func RingAreaSquareMeters(ring []LatLng) float64 {
	ring = openRing(ring)
	if len(ring) < 3 {
		return 0
	}

	center, _ := Centroid(ring)
	cosLat := math.Cos(center.Lat * math.Pi / 180)

	project := func(p LatLng) (x, y float64) {
		x = (p.Lng - center.Lng) * math.Pi / 180 * earthRadiusMeters * cosLat
		y = (p.Lat - center.Lat) * math.Pi / 180 * earthRadiusMeters
		return x, y
	}

	var sum float64
	for i := 0; i < len(ring); i++ {
		x1, y1 := project(ring[i])
		x2, y2 := project(ring[(i+1)%len(ring)])
		sum += x1*y2 - x2*y1
	}
	return math.Abs(sum) / 2
}

// Bounds is a lat/lng axis-aligned bounding box.
type Bounds struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// RingBounds returns the ring's bounding box. False for an empty ring.
func RingBounds(ring []LatLng) (Bounds, bool) {
	ring = openRing(ring)
	if len(ring) == 0 {
		return Bounds{}, false
	}

	b := Bounds{MinLat: ring[0].Lat, MaxLat: ring[0].Lat, MinLng: ring[0].Lng, MaxLng: ring[0].Lng}
	for _, p := range ring[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	return b, true
}

// Expand grows the box by roughly the given number of meters on every side.
func (b Bounds) Expand(meters float64) Bounds {
	dLat := meters / 111320.0
	midLat := (b.MinLat + b.MaxLat) / 2
	cosLat := math.Cos(midLat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLng := meters / (111320.0 * cosLat)
	return Bounds{
		MinLat: b.MinLat - dLat,
		MinLng: b.MinLng - dLng,
		MaxLat: b.MaxLat + dLat,
		MaxLng: b.MaxLng + dLng,
	}
}

// openRing drops a closing vertex that repeats the first one so it is not
// counted twice by Centroid and friends.
func openRing(ring []LatLng) []LatLng {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}
