package geo

import (
	"math"

	"github.com/juliecor/zonal-backend/internal/models"
)

// MaxPathPoints is the hard cap on a simplified path. Anything above
// it gets uniformly subsampled after the tolerance pass.
const MaxPathPoints = 500

// Simplify reduces a polyline with Ramer-Douglas-Peucker using a
// perpendicular tolerance in meters, then enforces MaxPathPoints.
// The first and last points are always preserved. Simplification runs
// in a locally linearized meter frame (longitude scaled by the cosine
// of the first point's latitude), which is a deliberately cheaper
// regime than the haversine math used for scoring.
func Simplify(points []models.LatLng, epsilonM float64) []models.LatLng {
	if len(points) <= 2 {
		return points
	}

	mLat, mLng := metersPerDegree(points[0].Lat)
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Lng * mLng
		ys[i] = p.Lat * mLat
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	rdp(xs, ys, 0, len(points)-1, epsilonM, keep)

	out := make([]models.LatLng, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return capPoints(out)
}

func rdp(xs, ys []float64, first, last int, eps float64, keep []bool) {
	if last <= first+1 {
		return
	}
	maxDist := 0.0
	maxIdx := first
	for i := first + 1; i < last; i++ {
		d := perpendicularDistance(xs[i], ys[i], xs[first], ys[first], xs[last], ys[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= eps {
		return
	}
	keep[maxIdx] = true
	rdp(xs, ys, first, maxIdx, eps, keep)
	rdp(xs, ys, maxIdx, last, eps, keep)
}

func perpendicularDistance(x, y, x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(x-x1, y-y1)
	}
	return math.Abs(dy*x-dx*y+x2*y1-y2*x1) / math.Sqrt(lenSq)
}

func capPoints(points []models.LatLng) []models.LatLng {
	if len(points) <= MaxPathPoints {
		return points
	}
	stride := (len(points) + MaxPathPoints - 1) / MaxPathPoints
	out := make([]models.LatLng, 0, MaxPathPoints)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	last := points[len(points)-1]
	if out[len(out)-1] != last {
		if len(out) == MaxPathPoints {
			out[len(out)-1] = last
		} else {
			out = append(out, last)
		}
	}
	return out
}
