package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_Zero(t *testing.T) {
	points := []Point{
		{0, 0},
		{9.857388352870416, -83.90770043545028},
		{-33.8688, 151.2093},
		{90, 180},
	}
	for _, p := range points {
		if d := HaversineKm(p.Lat, p.Lon, p.Lat, p.Lon); math.Abs(d) > 1e-8 {
			t.Errorf("HaversineKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{{9.857388352870416, -83.90770043545028}, {10.0, -84.0}},
		{{0, 0}, {0, 1}},
		{{51.5074, -0.1278}, {40.7128, -74.0060}},
		{{-89, 10}, {89, -170}},
	}
	for _, pr := range pairs {
		d1 := HaversineKm(pr[0].Lat, pr[0].Lon, pr[1].Lat, pr[1].Lon)
		d2 := HaversineKm(pr[1].Lat, pr[1].Lon, pr[0].Lat, pr[0].Lon)
		if math.Abs(d1-d2) > 1e-6 {
			t.Errorf("asymmetric distance %v vs %v for %v", d1, d2, pr)
		}
	}
}

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"one degree on equator", Point{0, 0}, Point{0, 1}, 111.19, 0.01},
		{"quarter meridian", Point{0, 0}, Point{90, 0}, math.Pi / 2 * EarthRadiusKm, 1e-6},
		{"antipodal", Point{0, 0}, Point{0, 180}, math.Pi * EarthRadiusKm, 1e-6},
		{"antipodal off axis", Point{10, 20}, Point{-10, -160}, math.Pi * EarthRadiusKm, 1e-6},
		{"pole to pole", Point{90, 0}, Point{-90, 0}, math.Pi * EarthRadiusKm, 1e-6},
		{"london to new york", Point{51.5074, -0.1278}, Point{40.7128, -74.0060}, 5570, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.DistanceKm(tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("DistanceKm = %v, want %v ± %v", got, tt.want, tt.tol)
			}
		})
	}
}

func TestToPixel(t *testing.T) {
	const w, h = 360.0, 180.0
	tests := []struct {
		name     string
		lat, lon float64
		wantX    float64
		wantY    float64
	}{
		{"center", 0, 0, w / 2, h / 2},
		{"west date line", 0, -180, 0, h / 2},
		{"east date line", 0, 180, w, h / 2},
		{"north pole", 90, 0, w / 2, 0},
		{"south pole", -90, 0, w / 2, h},
		{"clamped longitude", 0, 200, w, h / 2},
		{"clamped latitude", -120, -200, 0, h},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ToPixel(tt.lat, tt.lon, w, h)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("ToPixel(%v, %v) = (%v, %v), want (%v, %v)", tt.lat, tt.lon, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestHaversineKm_AntipodesAreFinite(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 7.3 {
		for lon := -170.0; lon <= 170; lon += 11.9 {
			d := HaversineKm(lat, lon, -lat, lon+180)
			if math.IsNaN(d) || math.Abs(d-math.Pi*EarthRadiusKm) > 1e-6 {
				t.Fatalf("HaversineKm(%v, %v) to antipode = %v", lat, lon, d)
			}
		}
	}
}
