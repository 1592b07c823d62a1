package geo

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestNormLon(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"positive", 90, 90},
		{"boundary wraps", 180, -180},
		{"east of boundary", 190, -170},
		{"just under full circle", 359, -1},
		{"full circle", 720, 0},
		{"negative in range", -90, -90},
		{"west of boundary", -190, 170},
		{"west boundary kept", -180, -180},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormLon(tc.in)
			if math.Abs(got-tc.want) > tol {
				t.Errorf("NormLon(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSpherePointKnown(t *testing.T) {
	cases := []struct {
		name     string
		lon, lat float64
		want     Vec3
	}{
		{"prime meridian equator", 0, 0, Vec3{1, 0, 0}},
		{"90E equator", 90, 0, Vec3{0, 0, 1}},
		{"antimeridian equator", 180, 0, Vec3{-1, 0, 0}},
		{"90W equator", -90, 0, Vec3{0, 0, -1}},
		{"north pole", 0, 90, Vec3{0, 1, 0}},
		{"south pole", 0, -90, Vec3{0, -1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SpherePoint(tc.lon, tc.lat)
			if math.Abs(got.X-tc.want.X) > tol || math.Abs(got.Y-tc.want.Y) > tol || math.Abs(got.Z-tc.want.Z) > tol {
				t.Errorf("SpherePoint(%v, %v) = %v, want %v", tc.lon, tc.lat, got, tc.want)
			}
		})
	}
}

func TestLonLatRoundTrip(t *testing.T) {
	for lat := -85.0; lat <= 85.0; lat += 17 {
		for lon := -175.0; lon < 180.0; lon += 35 {
			p := SpherePoint(lon, lat)
			if math.Abs(p.Length()-1) > tol {
				t.Fatalf("SpherePoint(%v, %v) not on unit sphere: |p| = %v", lon, lat, p.Length())
			}
			gotLon, gotLat := LonLat(p)
			if math.Abs(gotLon-lon) > 1e-9 || math.Abs(gotLat-lat) > 1e-9 {
				t.Errorf("round trip (%v, %v) -> (%v, %v)", lon, lat, gotLon, gotLat)
			}
		}
	}
}

func TestIntersectSphere(t *testing.T) {
	cases := []struct {
		name   string
		ray    Ray
		radius float64
		wantT  float64
		wantOK bool
	}{
		{
			name:   "head-on hit",
			ray:    Ray{Origin: Vec3{0, 0, 3}, Dir: Vec3{0, 0, -1}},
			radius: 1,
			wantT:  2,
			wantOK: true,
		},
		{
			name:   "pointing away",
			ray:    Ray{Origin: Vec3{0, 0, 3}, Dir: Vec3{0, 0, 1}},
			radius: 1,
			wantOK: false,
		},
		{
			name:   "misses silhouette",
			ray:    Ray{Origin: Vec3{0, 2, 3}, Dir: Vec3{0, 0, -1}},
			radius: 1,
			wantOK: false,
		},
		{
			name:   "origin inside takes far root",
			ray:    Ray{Origin: Vec3{0, 0, 0}, Dir: Vec3{1, 0, 0}},
			radius: 1,
			wantT:  1,
			wantOK: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotT, ok := IntersectSphere(tc.ray, tc.radius)
			if ok != tc.wantOK {
				t.Fatalf("IntersectSphere ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && math.Abs(gotT-tc.wantT) > 1e-6 {
				t.Errorf("IntersectSphere t = %v, want %v", gotT, tc.wantT)
			}
		})
	}
}

func TestIntersectSphereHitLiesOnSphere(t *testing.T) {
	ray := Ray{Origin: Vec3{0.3, 1.1, 2.7}, Dir: Vec3{-0.1, -0.4, -1}.Normalize()}
	tHit, ok := IntersectSphere(ray, 1)
	if !ok {
		t.Fatal("expected hit")
	}
	p := ray.Origin.Add(ray.Dir.Scale(tHit))
	if math.Abs(p.Length()-1) > 1e-9 {
		t.Errorf("hit point off sphere: |p| = %v", p.Length())
	}
}
