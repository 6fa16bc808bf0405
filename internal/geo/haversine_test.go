package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	if d := HaversineKm(-23.5505, -46.6333, -23.5505, -46.6333); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Sao Paulo (Se cathedral) to Rio de Janeiro (centro), ~357 km.
	d := HaversineKm(-23.5505, -46.6333, -22.9068, -43.1729)
	if math.Abs(d-357) > 5 {
		t.Errorf("expected ~357 km, got %f", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := HaversineKm(-23.5505, -46.6333, -22.9068, -43.1729)
	b := HaversineKm(-22.9068, -43.1729, -23.5505, -46.6333)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}
