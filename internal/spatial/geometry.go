package spatial

// Bounds is an axis-aligned lat/lon rectangle
type Bounds struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// BoundingBox returns the rectangle enclosing points; ok is false for no points
func BoundingBox(points []Point) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	b = Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b, true
}

// Degenerate reports whether the rectangle collapses to a point
func (b Bounds) Degenerate() bool {
	return b.MinLat == b.MaxLat && b.MinLon == b.MaxLon
}
