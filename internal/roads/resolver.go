package roads

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/cache"
	"github.com/juliecor/zonal-backend/internal/fetch"
	"github.com/juliecor/zonal-backend/internal/geo"
	"github.com/juliecor/zonal-backend/internal/geocode"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/overpass"
	"github.com/juliecor/zonal-backend/internal/textutil"
)

const (
	// clipRadiusM bounds all road queries to the anchor's vicinity.
	clipRadiusM = 25000
	// maxNodeGateM rejects junction nodes that sit too far from any
	// vertex of the main way to be a real intersection.
	maxNodeGateM = 60
	// minIndexSeparation rejects clips whose bounding junctions land on
	// nearly the same spot of the main way.
	minIndexSeparation = 5
	// refWeight blends the record point into junction-pair scoring so
	// the clip nearest the property wins among same-named roads.
	refWeight = 0.5
	// simplifyEpsM is the display tolerance for highlight paths.
	simplifyEpsM = 5.0

	maxFallbackRoads = 2
)

// GeometryResolver turns a ranked record into map geometry: a junction
// clip of the main road when the vicinity text describes one, otherwise
// the full geometry of the best-matching named roads.
type GeometryResolver struct {
	Spatial    overpass.Querier
	Geocoder   geocode.Geocoder
	Anchors    *AnchorResolver
	Points     *cache.Cache[models.RecordPoint]
	Highlights *cache.Cache[models.HighlightLine]
	Logger     zerolog.Logger
}

// Resolve produces the highlight geometry for a record. A nil highlight
// with warnings means the record located nothing drawable; that is an
// expected outcome, not an error. Errors are reserved for fatal
// conditions: anchor failure and cancellation.
func (r *GeometryResolver) Resolve(ctx context.Context, rec models.Record) (*models.HighlightLine, []string, error) {
	anchor, err := r.Anchors.Anchor(ctx, rec.Municipality, rec.Province)
	if err != nil {
		return nil, nil, fmt.Errorf("anchor %s, %s: %w", rec.Municipality, rec.Province, err)
	}

	key := recordKey(rec)
	if line, ok := r.Highlights.Get(key); ok {
		return &line, nil, nil
	}

	ref, warnings := r.refPoint(ctx, rec, anchor)

	if clip := ParseJunctionClip(rec.Vicinity); clip != nil {
		line, err := r.resolveClip(ctx, clip, anchor, ref)
		if err != nil {
			if fetch.IsCancelled(err) {
				return nil, nil, err
			}
			warnings = append(warnings, fmt.Sprintf("junction clip %q failed: %v", clip.Main, err))
		} else if line != nil {
			r.Highlights.Put(key, *line)
			return line, warnings, nil
		} else {
			warnings = append(warnings, fmt.Sprintf("no junction found between %q and %q on %q", clip.A, clip.B, clip.Main))
		}
	}

	line, fallbackWarnings, err := r.resolveFullRoads(ctx, rec, anchor, ref)
	warnings = append(warnings, fallbackWarnings...)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		warnings = append(warnings, "no road geometry found for record")
		return nil, warnings, nil
	}
	r.Highlights.Put(key, *line)
	return line, warnings, nil
}

// RecordPoint resolves the reference coordinate for a record, trying
// road geometry first, then a structured text geocode, then the anchor
// itself. It never fails once the anchor is known.
func (r *GeometryResolver) RecordPoint(ctx context.Context, rec models.Record) (models.RecordPoint, error) {
	anchor, err := r.Anchors.Anchor(ctx, rec.Municipality, rec.Province)
	if err != nil {
		return models.RecordPoint{}, err
	}
	pt, _ := r.refPoint(ctx, rec, anchor)
	return pt, nil
}

// refPoint is the three-stage fallback behind RecordPoint. Non-fatal
// stage failures are reported as warnings.
func (r *GeometryResolver) refPoint(ctx context.Context, rec models.Record, anchor models.Anchor) (models.RecordPoint, []string) {
	key := recordKey(rec)
	if pt, ok := r.Points.Get(key); ok {
		return pt, nil
	}

	var warnings []string

	if pt, ok := r.midpointFromRoads(ctx, rec, anchor); ok {
		r.Points.Put(key, pt)
		return pt, nil
	}
	warnings = append(warnings, "no named road midpoint for record, falling back to text geocode")

	query := joinNonEmpty(rec.Vicinity, rec.Barangay, rec.Municipality, rec.Province, "Philippines")
	if gp, err := r.Geocoder.GeocodeTop(ctx, query); err == nil {
		pt := models.RecordPoint{Lat: gp.Lat, Lng: gp.Lng, Label: gp.DisplayName}
		r.Points.Put(key, pt)
		return pt, warnings
	} else if !fetch.IsCancelled(err) {
		warnings = append(warnings, fmt.Sprintf("text geocode failed: %v", err))
	}

	pt := models.RecordPoint{Lat: anchor.Lat, Lng: anchor.Lng, Label: anchor.Label}
	r.Points.Put(key, pt)
	return pt, warnings
}

// midpointFromRoads queries the first road candidate around the anchor
// and returns the midpoint vertex of the way nearest the anchor.
func (r *GeometryResolver) midpointFromRoads(ctx context.Context, rec models.Record, anchor models.Anchor) (models.RecordPoint, bool) {
	candidates := ExtractCandidates(rec.Vicinity)
	if len(candidates) == 0 {
		return models.RecordPoint{}, false
	}
	ways, err := r.namedWays(ctx, candidates[0], anchor)
	if err != nil || len(ways) == 0 {
		return models.RecordPoint{}, false
	}
	way := nearestWay(ways, anchor.Lat, anchor.Lng)
	mid := way.Geometry[len(way.Geometry)/2]
	return models.RecordPoint{Lat: mid.Lat, Lng: mid.Lon, Label: candidates[0]}, true
}

// resolveClip slices the main road between its junctions with the two
// cross roads. Returns (nil, nil) when no valid junction pair exists.
func (r *GeometryResolver) resolveClip(ctx context.Context, clip *models.JunctionClip, anchor models.Anchor, ref models.RecordPoint) (*models.HighlightLine, error) {
	mainWays, err := r.namedWays(ctx, clip.Main, anchor)
	if err != nil {
		return nil, err
	}
	if len(mainWays) == 0 {
		return nil, nil
	}

	nodesA, err := r.junctionNodes(ctx, clip.Main, clip.A, anchor)
	if err != nil {
		return nil, err
	}
	nodesB, err := r.junctionNodes(ctx, clip.Main, clip.B, anchor)
	if err != nil {
		return nil, err
	}
	if len(nodesA) == 0 || len(nodesB) == 0 {
		return nil, nil
	}

	type pick struct {
		way    *models.Element
		lo, hi int
		score  float64
	}
	best := pick{score: math.Inf(1)}

	for wi := range mainWays {
		way := &mainWays[wi]
		for _, na := range nodesA {
			ia, da, ok := nodeIndexOnWay(way, &na)
			if !ok {
				continue
			}
			for _, nb := range nodesB {
				ib, db, ok := nodeIndexOnWay(way, &nb)
				if !ok {
					continue
				}
				if abs(ia-ib) < minIndexSeparation {
					continue
				}
				mid := way.Geometry[(ia+ib)/2]
				score := da + db + refWeight*geo.HaversineM(ref.Lat, ref.Lng, mid.Lat, mid.Lon)
				if score < best.score {
					lo, hi := ia, ib
					if lo > hi {
						lo, hi = hi, lo
					}
					best = pick{way: way, lo: lo, hi: hi, score: score}
				}
			}
		}
	}
	if best.way == nil {
		return nil, nil
	}

	segment := best.way.Geometry[best.lo : best.hi+1]
	path := geo.Simplify(toLatLngs(segment), simplifyEpsM)
	return &models.HighlightLine{
		Paths: [][]models.LatLng{path},
		Label: fmt.Sprintf("%s (%s to %s)", clip.Main, clip.A, clip.B),
	}, nil
}

// resolveFullRoads draws the complete geometry of up to two candidate
// roads, picking the way nearest the reference point for each name.
// Individual candidate failures become warnings; cancellation aborts.
func (r *GeometryResolver) resolveFullRoads(ctx context.Context, rec models.Record, anchor models.Anchor, ref models.RecordPoint) (*models.HighlightLine, []string, error) {
	candidates := ExtractCandidates(rec.Vicinity)
	if len(candidates) > maxFallbackRoads {
		candidates = candidates[:maxFallbackRoads]
	}

	var warnings []string
	var paths [][]models.LatLng
	var labels []string

	for _, name := range candidates {
		ways, err := r.namedWays(ctx, name, anchor)
		if err != nil {
			if fetch.IsCancelled(err) {
				return nil, nil, err
			}
			warnings = append(warnings, fmt.Sprintf("road lookup %q failed: %v", name, err))
			continue
		}
		if len(ways) == 0 {
			warnings = append(warnings, fmt.Sprintf("no ways named %q near %s", name, rec.Municipality))
			continue
		}
		way := nearestWay(ways, ref.Lat, ref.Lng)
		path := geo.Simplify(toLatLngs(way.Geometry), simplifyEpsM)
		if len(path) < 2 {
			continue
		}
		paths = append(paths, path)
		labels = append(labels, name)
	}

	if len(paths) == 0 {
		return nil, warnings, nil
	}
	return &models.HighlightLine{Paths: paths, Label: strings.Join(labels, " / ")}, warnings, nil
}

func (r *GeometryResolver) namedWays(ctx context.Context, name string, anchor models.Anchor) ([]models.Element, error) {
	elements, err := r.Spatial.Query(ctx, overpass.NamedWaysQuery(name, clipRadiusM, anchor.Lat, anchor.Lng))
	if err != nil {
		return nil, err
	}
	ways := elements[:0]
	for _, el := range elements {
		if el.Type == "way" && len(el.Geometry) >= 2 {
			ways = append(ways, el)
		}
	}
	return ways, nil
}

func (r *GeometryResolver) junctionNodes(ctx context.Context, main, cross string, anchor models.Anchor) ([]models.Element, error) {
	elements, err := r.Spatial.Query(ctx, overpass.JunctionNodesQuery(main, cross, clipRadiusM, anchor.Lat, anchor.Lng))
	if err != nil {
		return nil, err
	}
	nodes := elements[:0]
	for _, el := range elements {
		if el.Type == "node" {
			nodes = append(nodes, el)
		}
	}
	return nodes, nil
}

// nodeIndexOnWay locates a junction node on a way, preferring the exact
// node-id match and falling back to the nearest geometry vertex within
// maxNodeGateM. The returned distance feeds the pair score.
func nodeIndexOnWay(way *models.Element, node *models.Element) (int, float64, bool) {
	for i, id := range way.Nodes {
		if id == node.ID && i < len(way.Geometry) {
			return i, 0, true
		}
	}
	bestIdx := -1
	bestDist := math.Inf(1)
	for i, v := range way.Geometry {
		if d := geo.HaversineM(node.Lat, node.Lon, v.Lat, v.Lon); d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestDist > maxNodeGateM {
		return 0, 0, false
	}
	return bestIdx, bestDist, true
}

func nearestWay(ways []models.Element, lat, lng float64) *models.Element {
	best := &ways[0]
	bestDist := geo.DistanceToPathM(lat, lng, ways[0].Geometry)
	for i := 1; i < len(ways); i++ {
		if d := geo.DistanceToPathM(lat, lng, ways[i].Geometry); d < bestDist {
			bestDist = d
			best = &ways[i]
		}
	}
	return best
}

func toLatLngs(vertices []models.Vertex) []models.LatLng {
	out := make([]models.LatLng, len(vertices))
	for i, v := range vertices {
		out[i] = models.LatLng{Lat: v.Lat, Lng: v.Lon}
	}
	return out
}

// recordKey is the shared cache key for a record's point and geometry.
func recordKey(rec models.Record) string {
	parts := []string{rec.Province, rec.Municipality, rec.Barangay, rec.Vicinity, rec.Classification}
	for i, p := range parts {
		parts[i] = textutil.Normalize(p)
	}
	return strings.Join(parts, "|")
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
