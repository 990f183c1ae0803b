// Package proximity assigns each lead the nearest field officer by
// great-circle distance and classifies its sales territory.
package proximity

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/furnacex/intel-cli/internal/model"
	"github.com/furnacex/intel-cli/pkg/geocode"
)

const earthRadiusKM = 6371

// Haversine returns the great-circle distance in kilometers between two
// lat/lon points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	lat1, lon1 = lat1*rad, lon1*rad
	lat2, lon2 = lat2*rad, lon2*rad

	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// Router routes leads to officers. The registry is read-only and shared; the
// Router never mutates it.
type Router struct {
	officers []model.Officer
	resolver geocode.Provider
}

// NewRouter builds a Router over a validated registry.
func NewRouter(officers []model.Officer, resolver geocode.Provider) (*Router, error) {
	if len(officers) == 0 {
		return nil, eris.New("proximity: empty officer registry")
	}
	return &Router{officers: officers, resolver: resolver}, nil
}

// Nearest returns the officer closest to the coordinate and the distance in
// kilometers. Ties break to the officer earlier in registry order, which
// keeps routing stable and reproducible.
func (r *Router) Nearest(lat, lon float64) (model.Officer, float64) {
	best := r.officers[0]
	bestDist := Haversine(lat, lon, best.Latitude, best.Longitude)
	for _, o := range r.officers[1:] {
		if d := Haversine(lat, lon, o.Latitude, o.Longitude); d < bestDist {
			best, bestDist = o, d
		}
	}
	return best, bestDist
}

// Route resolves the lead's location and assigns the nearest officer and
// territory. An unresolvable location leaves the officer unset and the
// territory "Unassigned": a blank field for manual triage beats a silently
// wrong assignment. Only transport-level resolver failures are returned.
func (r *Router) Route(ctx context.Context, lead *model.Lead) error {
	coord, err := r.resolver.Resolve(ctx, geocode.Query{
		Location:    lead.Location,
		State:       string(lead.State),
		Description: lead.Description,
	})
	if err == geocode.ErrUnresolved {
		zap.L().Info("lead location unresolved, leaving officer unassigned",
			zap.String("lead_id", lead.ID),
			zap.String("location", lead.Location))
		lead.Officer = nil
		lead.Territory = TerritoryUnassigned
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "proximity: resolve lead %s", lead.ID)
	}

	officer, dist := r.Nearest(coord.Lat, coord.Lon)
	lead.Officer = &model.OfficerAssignment{
		Name:       officer.DisplayName(),
		Phone:      officer.Phone,
		Email:      officer.Email,
		Address:    officer.Address,
		Role:       officer.Role,
		DistanceKM: dist,
	}
	lead.Territory = ClassifyTerritory(coord.Lat, coord.Lon)
	return nil
}
