// Package shapes converts curves to and from GeoJSON
package shapes

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"lines-drawer/internal/geom"
)

// ErrNoGeometry is returned when a document holds no usable curve
var ErrNoGeometry = errors.New("no curve geometry found")

// Feature kinds written to the "kind" property
const (
	KindCurve = "curve"
	KindPin   = "pin"
)

// ToLineString converts a curve to an orb line string
func ToLineString(c geom.Curve) orb.LineString {
	points := c.Points()
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, orb.Point{p.X, p.Y})
	}
	return ls
}

// FromLineString converts an orb line string to a curve. Repeated points are
// dropped so that no segment has zero length.
func FromLineString(ls orb.LineString) (geom.Curve, error) {
	points := make([]geom.Vector, 0, len(ls))
	for _, p := range ls {
		v := geom.Vec(p[0], p[1])
		if !v.IsFinite() {
			return geom.Curve{}, fmt.Errorf("non-finite coordinate %v", p)
		}
		if len(points) > 0 && points[len(points)-1] == v {
			continue
		}
		points = append(points, v)
	}
	return geom.CurveFromPoints(points)
}

// ParseCurves reads the curves of a GeoJSON FeatureCollection.
// LineStrings and the outer rings of polygons become curves; other
// geometries and degenerate lines are skipped.
func ParseCurves(data []byte) ([]geom.Curve, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	var curves []geom.Curve
	for _, feature := range fc.Features {
		for _, ls := range lineStrings(feature.Geometry) {
			curve, err := FromLineString(ls)
			if err != nil {
				log.Printf("⚠️  Skipping line string: %v\n", err)
				continue
			}
			curves = append(curves, curve)
		}
	}

	if len(curves) == 0 {
		return nil, ErrNoGeometry
	}
	return curves, nil
}

// lineStrings flattens geometry into line strings
func lineStrings(g orb.Geometry) []orb.LineString {
	switch g := g.(type) {
	case orb.LineString:
		return []orb.LineString{g}
	case orb.MultiLineString:
		return g
	case orb.Ring:
		return []orb.LineString{orb.LineString(g)}
	case orb.Polygon:
		// First ring is the outer boundary
		if len(g) > 0 {
			return []orb.LineString{orb.LineString(g[0])}
		}
	case orb.MultiPolygon:
		var result []orb.LineString
		for _, poly := range g {
			if len(poly) > 0 {
				result = append(result, orb.LineString(poly[0]))
			}
		}
		return result
	case orb.Collection:
		var result []orb.LineString
		for _, sub := range g {
			result = append(result, lineStrings(sub)...)
		}
		return result
	}
	return nil
}

// LoadCurvesDir loads the curves of every GeoJSON file in dir
func LoadCurvesDir(dir string) ([]geom.Curve, error) {
	var allCurves []geom.Curve

	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading obstacle curves from %d GeoJSON files...\n", len(files))

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v\n", file, err)
			continue
		}

		curves, err := ParseCurves(data)
		if err != nil {
			log.Printf("⚠️  Failed to parse %s: %v\n", file, err)
			continue
		}

		allCurves = append(allCurves, curves...)
		log.Printf("   ✅ Loaded %d curves from %s\n", len(curves), filepath.Base(file))
	}

	log.Printf("Total obstacle curves loaded: %d\n", len(allCurves))
	return allCurves, nil
}

// FeatureCollection exports curves as LineStrings and pins as Points
func FeatureCollection(curves []geom.Curve, pins []geom.Vector) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, c := range curves {
		if c.IsEmpty() {
			continue
		}
		f := geojson.NewFeature(ToLineString(c))
		f.Properties["kind"] = KindCurve
		f.Properties["index"] = i
		f.Properties["segments"] = len(c.Segments)
		f.Properties["length"] = c.Length()
		fc.Append(f)
	}

	for i, p := range pins {
		f := geojson.NewFeature(orb.Point{p.X, p.Y})
		f.Properties["kind"] = KindPin
		f.Properties["index"] = i
		fc.Append(f)
	}

	return fc
}

// Bounds returns the bounding box of all curves
func Bounds(curves []geom.Curve) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, c := range curves {
		if c.IsEmpty() {
			continue
		}
		b := ToLineString(c).Bound()
		if !found {
			bound, found = b, true
			continue
		}
		bound = bound.Union(b)
	}
	return bound, found
}
