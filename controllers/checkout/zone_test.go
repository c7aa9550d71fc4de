package checkout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineZeroDistance(t *testing.T) {
	assert.InDelta(t, 0, haversineKm(47.6062, -122.3321, 47.6062, -122.3321), 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Seattle to Portland, roughly 233 km.
	d := haversineKm(47.6062, -122.3321, 45.5152, -122.6784)
	assert.InDelta(t, 233, d, 3)
}

func TestHaversineOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111 km anywhere on the globe.
	d := haversineKm(10, 20, 11, 20)
	assert.InDelta(t, 111.2, d, 0.5)
}

func TestHaversineSymmetry(t *testing.T) {
	a := haversineKm(47.6, -122.3, 47.7, -122.4)
	b := haversineKm(47.7, -122.4, 47.6, -122.3)
	assert.True(t, math.Abs(a-b) < 1e-9)
}
