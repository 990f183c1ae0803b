package proximity

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Territory labels for leads that cannot be placed inside a sales region.
const (
	TerritoryOutOfTerritory = "Out of Territory"
	TerritoryUnassigned     = "Unassigned"
)

// Sales regions as closed lon/lat rings, checked in order; the first ring
// containing the point wins. The rings are coarse on purpose: they carve the
// operating states into the four sales regions, they are not survey-grade
// boundaries.
var territories = []struct {
	Name string
	Ring []float64 // flat lon/lat pairs, closed
}{
	// Maharashtra and the Deccan west.
	{"West", []float64{
		72.0, 15.5,
		81.0, 15.5,
		81.0, 22.2,
		72.0, 22.2,
		72.0, 15.5,
	}},
	// West Bengal and the eastern belt.
	{"East", []float64{
		84.0, 20.0,
		92.5, 20.0,
		92.5, 27.5,
		84.0, 27.5,
		84.0, 20.0,
	}},
	// Madhya Pradesh, Uttar Pradesh, Haryana.
	{"North", []float64{
		74.0, 22.2,
		84.0, 22.2,
		84.0, 32.0,
		74.0, 32.0,
		74.0, 22.2,
	}},
	// Peninsular south, outside the current operating states.
	{"South", []float64{
		72.0, 6.0,
		82.0, 6.0,
		82.0, 15.5,
		72.0, 15.5,
		72.0, 6.0,
	}},
}

// ClassifyTerritory maps a coordinate to a sales region name. Points in no
// region are "Out of Territory".
func ClassifyTerritory(lat, lon float64) string {
	pt := geom.Coord{lon, lat}
	for _, t := range territories {
		if xy.IsPointInRing(geom.XY, pt, t.Ring) {
			return t.Name
		}
	}
	return TerritoryOutOfTerritory
}
