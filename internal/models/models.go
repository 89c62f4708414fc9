package models

import (
	"encoding/json"
	"math"
)

// Record is a single zonal-value row as loaded from a dataset file.
// Immutable once parsed. ZonalValue is NaN when the source cell could
// not be parsed as a number; NaN marshals as JSON null.
type Record struct {
	Region         string  `json:"region"`
	Province       string  `json:"province"`
	Municipality   string  `json:"municipality"`
	Barangay       string  `json:"barangay"`
	Street         string  `json:"street"`
	Vicinity       string  `json:"vicinity"`
	Classification string  `json:"classification"`
	ZonalValue     float64 `json:"zonal_value"`
}

type recordAlias struct {
	Region         string   `json:"region"`
	Province       string   `json:"province"`
	Municipality   string   `json:"municipality"`
	Barangay       string   `json:"barangay"`
	Street         string   `json:"street"`
	Vicinity       string   `json:"vicinity"`
	Classification string   `json:"classification"`
	ZonalValue     *float64 `json:"zonal_value"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	a := recordAlias{
		Region:         r.Region,
		Province:       r.Province,
		Municipality:   r.Municipality,
		Barangay:       r.Barangay,
		Street:         r.Street,
		Vicinity:       r.Vicinity,
		Classification: r.Classification,
	}
	if !math.IsNaN(r.ZonalValue) {
		v := r.ZonalValue
		a.ZonalValue = &v
	}
	return json.Marshal(a)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var a recordAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	r.Region = a.Region
	r.Province = a.Province
	r.Municipality = a.Municipality
	r.Barangay = a.Barangay
	r.Street = a.Street
	r.Vicinity = a.Vicinity
	r.Classification = a.Classification
	if a.ZonalValue != nil {
		r.ZonalValue = *a.ZonalValue
	} else {
		r.ZonalValue = math.NaN()
	}
	return nil
}

// GeoPoint is a geocoded place: forward search result, reverse lookup
// result, or autocomplete suggestion.
type GeoPoint struct {
	DisplayName string            `json:"display_name"`
	Lat         float64           `json:"lat"`
	Lng         float64           `json:"lng"`
	Address     map[string]string `json:"address,omitempty"`
}

// LatLng is a display coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FacilityReport counts nearby facilities by fixed category.
type FacilityReport struct {
	Hospitals int `json:"hospitals"`
	Schools   int `json:"schools"`
	Police    int `json:"police"`
	Fire      int `json:"fire"`
	Pharmacy  int `json:"pharmacy"`
	Bank      int `json:"bank"`
	Market    int `json:"market"`
	Mall      int `json:"mall"`
	Transport int `json:"transport"`
}

// JunctionClip is a parsed "main road between two cross roads" bound.
type JunctionClip struct {
	Main string `json:"main"`
	A    string `json:"a"`
	B    string `json:"b"`
}

// Anchor is the session-stable coordinate for a municipality+province.
type Anchor struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// RecordPoint is the resolved reference coordinate of a Record.
type RecordPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// HighlightLine is one or more disjoint polylines to draw on the map.
// A successful junction clip yields a single path; the full-road
// fallback may yield up to two.
type HighlightLine struct {
	Paths [][]LatLng `json:"paths"`
	Label string     `json:"label"`
}

// Vertex is a raw way geometry point as returned by the spatial API.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is a transient spatial-query result element (node or way).
type Element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat,omitempty"`
	Lon      float64           `json:"lon,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Nodes    []int64           `json:"nodes,omitempty"`
	Geometry []Vertex          `json:"geometry,omitempty"`
	Center   *Vertex           `json:"center,omitempty"`
}

// Coords returns the element's representative point, using the center
// for ways.
func (e *Element) Coords() (float64, float64) {
	if e.Lat != 0 || e.Lon != 0 {
		return e.Lat, e.Lon
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon
	}
	if len(e.Geometry) > 0 {
		return e.Geometry[0].Lat, e.Geometry[0].Lon
	}
	return 0, 0
}
