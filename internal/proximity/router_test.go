package proximity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnacex/intel-cli/internal/model"
	"github.com/furnacex/intel-cli/pkg/geocode"
)

func TestHaversine(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.InDelta(t, 0, Haversine(19.0760, 72.8777, 19.0760, 72.8777), 1e-9)
	})

	t.Run("mumbai to pune", func(t *testing.T) {
		// Known distance is roughly 120 km.
		d := Haversine(19.0760, 72.8777, 18.5204, 73.8567)
		assert.InDelta(t, 120, d, 5)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Haversine(23.2599, 77.4126, 26.8467, 80.9462)
		b := Haversine(26.8467, 80.9462, 23.2599, 77.4126)
		assert.InDelta(t, a, b, 1e-9)
	})
}

var testOfficers = []model.Officer{
	{Role: "Sales Officer", Location: "Mumbai", State: "Maharashtra",
		Latitude: 19.0760, Longitude: 72.8777, Name: "A. Kulkarni", Phone: "+91-98"},
	{Role: "Depot Manager", Location: "Bhopal", State: "Madhya Pradesh",
		Latitude: 23.2599, Longitude: 77.4126},
	{Role: "Sales Officer", Location: "Kolkata", State: "West Bengal",
		Latitude: 22.5726, Longitude: 88.3639},
}

// fixedResolver returns a constant coordinate or ErrUnresolved.
type fixedResolver struct {
	coord      geocode.Coordinate
	unresolved bool
}

func (f fixedResolver) Resolve(context.Context, geocode.Query) (geocode.Coordinate, error) {
	if f.unresolved {
		return geocode.Coordinate{}, geocode.ErrUnresolved
	}
	return f.coord, nil
}

func TestNearest(t *testing.T) {
	r, err := NewRouter(testOfficers, fixedResolver{})
	require.NoError(t, err)

	t.Run("picks minimum distance over full registry", func(t *testing.T) {
		// Purulia is far closer to Kolkata than to Mumbai or Bhopal.
		officer, dist := r.Nearest(23.3387, 86.3660)
		assert.Equal(t, "Kolkata", officer.Location)

		want := Haversine(23.3387, 86.3660, 22.5726, 88.3639)
		assert.InDelta(t, want, dist, 1e-6)

		for _, o := range testOfficers {
			assert.LessOrEqual(t, dist, Haversine(23.3387, 86.3660, o.Latitude, o.Longitude)+1e-9)
		}
	})

	t.Run("tie breaks to first in registry order", func(t *testing.T) {
		dup := []model.Officer{
			{Role: "First", Location: "Pune", State: "Maharashtra", Latitude: 18.52, Longitude: 73.85},
			{Role: "Second", Location: "Pune", State: "Maharashtra", Latitude: 18.52, Longitude: 73.85},
		}
		r2, err := NewRouter(dup, fixedResolver{})
		require.NoError(t, err)
		officer, _ := r2.Nearest(19.0, 73.0)
		assert.Equal(t, "First", officer.Role)
	})
}

func TestRoute(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns nearest officer and territory", func(t *testing.T) {
		r, err := NewRouter(testOfficers, fixedResolver{coord: geocode.Coordinate{Lat: 18.5204, Lon: 73.8567}})
		require.NoError(t, err)

		lead := &model.Lead{ID: "L1", Location: "Pune", State: model.StateMaharashtra}
		require.NoError(t, r.Route(ctx, lead))

		require.NotNil(t, lead.Officer)
		assert.Equal(t, "A. Kulkarni", lead.Officer.Name)
		assert.Equal(t, "+91-98", lead.Officer.Phone)
		assert.Equal(t, "West", lead.Territory)
		assert.InDelta(t, Haversine(18.5204, 73.8567, 19.0760, 72.8777), lead.Officer.DistanceKM, 1e-6)
	})

	t.Run("role-location display name when officer unnamed", func(t *testing.T) {
		r, err := NewRouter(testOfficers, fixedResolver{coord: geocode.Coordinate{Lat: 23.2599, Lon: 77.4126}})
		require.NoError(t, err)

		lead := &model.Lead{ID: "L2", Location: "Bhopal", State: model.StateMadhyaPradesh}
		require.NoError(t, r.Route(ctx, lead))
		require.NotNil(t, lead.Officer)
		assert.Equal(t, "Depot Manager - Bhopal", lead.Officer.Name)
	})

	t.Run("unresolved location leaves officer empty", func(t *testing.T) {
		r, err := NewRouter(testOfficers, fixedResolver{unresolved: true})
		require.NoError(t, err)

		lead := &model.Lead{ID: "L3", Location: "???"}
		require.NoError(t, r.Route(ctx, lead))
		assert.Nil(t, lead.Officer)
		assert.Equal(t, TerritoryUnassigned, lead.Territory)
	})
}

func TestClassifyTerritory(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"mumbai is west", 19.0760, 72.8777, "West"},
		{"nagpur is west", 21.1458, 79.0882, "West"},
		{"bhopal is north", 23.2599, 77.4126, "North"},
		{"lucknow is north", 26.8467, 80.9462, "North"},
		{"gurugram is north", 28.4595, 77.0266, "North"},
		{"kolkata is east", 22.5726, 88.3639, "East"},
		{"purulia is east", 23.3387, 86.3660, "East"},
		{"chennai is south", 13.0827, 80.2707, "South"},
		{"arabian sea is out of territory", 15.0, 65.0, TerritoryOutOfTerritory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTerritory(tt.lat, tt.lon))
		})
	}
}

func TestNewRouterEmptyRegistry(t *testing.T) {
	_, err := NewRouter(nil, fixedResolver{})
	require.Error(t, err)
}
