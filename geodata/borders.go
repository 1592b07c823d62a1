package geodata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/averre/globeflow/geo"
)

// Polyline is one border chain as precomputed unit-sphere points,
// ready for the visible-hemisphere line renderer.
type Polyline []geo.Vec3

type geojsonFile struct {
	Type     string           `json:"type"`
	Features []geojsonFeature `json:"features"`
	Geometry *geojsonGeometry `json:"geometry"`
}

type geojsonFeature struct {
	Geometry geojsonGeometry `json:"geometry"`
}

type geojsonGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LoadBorders reads a GeoJSON file of country outlines into polylines
// on the unit sphere. LineString, MultiLineString, Polygon, and
// MultiPolygon geometries are supported; other types are ignored.
func LoadBorders(path string) ([]Polyline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading borders: %w", err)
	}
	var file geojsonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing borders: %w", err)
	}

	var lines []Polyline
	appendGeom := func(g geojsonGeometry) error {
		got, err := geometryLines(g)
		if err != nil {
			return err
		}
		lines = append(lines, got...)
		return nil
	}
	if file.Geometry != nil {
		if err := appendGeom(*file.Geometry); err != nil {
			return nil, err
		}
	}
	for _, f := range file.Features {
		if err := appendGeom(f.Geometry); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// geometryLines flattens one geometry into polylines. Polygon rings
// and line strings are the same shape once on the sphere, so both
// reduce to coordinate chains; only the nesting depth differs.
func geometryLines(g geojsonGeometry) ([]Polyline, error) {
	switch g.Type {
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("bad LineString: %w", err)
		}
		return []Polyline{chainToSphere(coords)}, nil
	case "MultiLineString", "Polygon":
		var chains [][][]float64
		if err := json.Unmarshal(g.Coordinates, &chains); err != nil {
			return nil, fmt.Errorf("bad %s: %w", g.Type, err)
		}
		lines := make([]Polyline, 0, len(chains))
		for _, c := range chains {
			lines = append(lines, chainToSphere(c))
		}
		return lines, nil
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("bad MultiPolygon: %w", err)
		}
		var lines []Polyline
		for _, rings := range polys {
			for _, c := range rings {
				lines = append(lines, chainToSphere(c))
			}
		}
		return lines, nil
	}
	return nil, nil
}

func chainToSphere(coords [][]float64) Polyline {
	line := make(Polyline, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		line = append(line, geo.SpherePoint(geo.NormLon(c[0]), c[1]))
	}
	return line
}
