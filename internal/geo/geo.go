package geo

import (
	"math"

	"github.com/juliecor/zonal-backend/internal/models"
)

const earthRadiusM = 6371000.0

// HaversineM returns the great-circle distance in meters. Used for all
// candidate scoring and nearest-point decisions.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	lat1R := radians(lat1)
	lat2R := radians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1R)*math.Cos(lat2R)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

func radians(d float64) float64 {
	return d * math.Pi / 180
}

// metersPerDegree returns the local meter scale of one degree of
// latitude and longitude at refLat (equirectangular approximation).
func metersPerDegree(refLat float64) (mLat, mLng float64) {
	mLat = earthRadiusM * math.Pi / 180
	mLng = mLat * math.Cos(radians(refLat))
	return
}

// DistanceToPathM returns the haversine distance in meters from a
// point to the nearest point on a polyline. Segment projection is done
// in the local meter frame; the reported distance is great-circle.
func DistanceToPathM(lat, lng float64, path []models.Vertex) float64 {
	if len(path) == 0 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	mLat, mLng := metersPerDegree(lat)
	for i := 0; i < len(path); i++ {
		d := HaversineM(lat, lng, path[i].Lat, path[i].Lon)
		if d < best {
			best = d
		}
		if i == 0 {
			continue
		}
		nLat, nLng := nearestOnSegment(lat, lng, path[i-1], path[i], mLat, mLng)
		if d := HaversineM(lat, lng, nLat, nLng); d < best {
			best = d
		}
	}
	return best
}

func nearestOnSegment(lat, lng float64, a, b models.Vertex, mLat, mLng float64) (float64, float64) {
	ax := (a.Lon - lng) * mLng
	ay := (a.Lat - lat) * mLat
	bx := (b.Lon - lng) * mLng
	by := (b.Lat - lat) * mLat

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a.Lat, a.Lon
	}
	t := -(ax*dx + ay*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Lat + t*(b.Lat-a.Lat), a.Lon + t*(b.Lon-a.Lon)
}
