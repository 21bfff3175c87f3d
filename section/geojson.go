package section

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// GeoJSON returns the loops and open paths of r in the 2D frame of
// plane. Loops become Polygon features, open paths LineString features.
func (r *Result) GeoJSON(plane Plane) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	r.appendFeatures(fc, plane)
	return fc
}

// SceneGeoJSON merges the features of several results.
func SceneGeoJSON(results []*Result, plane Plane) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range results {
		r.appendFeatures(fc, plane)
	}
	return fc
}

func (r *Result) appendFeatures(fc *geojson.FeatureCollection, plane Plane) {
	q := plane.frame()
	flatten := func(pts []mgl64.Vec3) orb.LineString {
		ls := make(orb.LineString, 0, len(pts)+1)
		for _, p := range pts {
			v := q.Rotate(p)
			ls = append(ls, orb.Point{v[0], v[1]})
		}
		return ls
	}

	for i, l := range r.Loops {
		ls := flatten(l)
		ls = append(ls, ls[0])
		ring := orb.Ring(ls)
		if ring.Orientation() == orb.CW {
			ring.Reverse()
		}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["part"] = r.Part
		f.Properties["loop"] = i
		f.Properties["area"] = math.Abs(planar.Area(ring))
		fc.Append(f)
	}

	for i, p := range r.Open {
		f := geojson.NewFeature(flatten(p))
		f.Properties["part"] = r.Part
		f.Properties["open"] = i
		fc.Append(f)
	}
}
