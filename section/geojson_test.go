package section

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/tdewolff/test"

	"github.com/gmlewis/mesh-slicer/mesh"
)

func TestGeoJSON(t *testing.T) {
	plane := mustPlane(t, 0, 0, 1, 0)
	cube := mesh.Box("cube", 2, 2, 2)
	open := mesh.New("open", cube.Positions, cube.Indices[:30])

	results := SectionScene([]*mesh.Mesh{cube, open}, plane)
	fc := SceneGeoJSON(results, plane)
	if len(fc.Features) != 2 {
		t.Fatalf("got %v features, want 2", len(fc.Features))
	}

	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	test.That(t, ok, "first feature must be a polygon")
	test.T(t, poly[0].Orientation(), orb.CCW)
	test.T(t, fc.Features[0].Properties["part"], "cube")
	test.FloatDiff(t, fc.Features[0].Properties["area"].(float64), 4, 1e-9)

	_, ok = fc.Features[1].Geometry.(orb.LineString)
	test.That(t, ok, "second feature must be a line string")
	test.T(t, fc.Features[1].Properties["part"], "open")

	buf, err := json.Marshal(results[0].GeoJSON(plane))
	test.Error(t, err)
	var decoded map[string]interface{}
	test.Error(t, json.Unmarshal(buf, &decoded))
	test.T(t, decoded["type"], "FeatureCollection")
}
