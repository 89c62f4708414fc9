package overpass

import (
	"fmt"
	"regexp"
	"strings"
)

const defaultTimeoutSec = 25

func header() string {
	return fmt.Sprintf("[out:json][timeout:%d];", defaultTimeoutSec)
}

func around(radiusM int, lat, lng float64) string {
	return fmt.Sprintf("(around:%d,%.7f,%.7f)", radiusM, lat, lng)
}

// TagRegexQuery finds nodes and ways whose tag value matches a regex
// within a radius, shaped with "out center" so ways carry a
// representative point.
func TagRegexQuery(tag, valueRegex string, radiusM int, lat, lng float64) string {
	filter := fmt.Sprintf(`["%s"~"%s"]`, tag, valueRegex)
	a := around(radiusM, lat, lng)
	return fmt.Sprintf("%s(node%s%s;way%s%s;);out center;", header(), filter, a, filter, a)
}

// TagValueQuery finds nodes and ways with an exact tag value within a
// radius.
func TagValueQuery(tag, value string, radiusM int, lat, lng float64) string {
	filter := fmt.Sprintf(`["%s"="%s"]`, tag, value)
	a := around(radiusM, lat, lng)
	return fmt.Sprintf("%s(node%s%s;way%s%s;);out center;", header(), filter, a, filter, a)
}

// TransportQuery unions bus stations, railway stations and tagged
// public-transport stations. Overlap between the three is expected and
// deduplicated by the caller.
func TransportQuery(radiusM int, lat, lng float64) string {
	a := around(radiusM, lat, lng)
	var b strings.Builder
	b.WriteString(header())
	b.WriteString("(")
	for _, filter := range []string{
		`["amenity"="bus_station"]`,
		`["railway"="station"]`,
		`["public_transport"="station"]`,
	} {
		fmt.Fprintf(&b, "node%s%s;way%s%s;", filter, a, filter, a)
	}
	b.WriteString(");out center;")
	return b.String()
}

// NamedWaysQuery fetches ways whose name matches the given road name
// (case-insensitive) with full geometry and node lists.
func NamedWaysQuery(name string, radiusM int, lat, lng float64) string {
	return fmt.Sprintf(`%sway["name"~"%s",i]%s;out geom;`,
		header(), escapeRegex(name), around(radiusM, lat, lng))
}

// JunctionNodesQuery returns the nodes shared between the ways of a
// main road and the ways of a cross road, using named set operations.
func JunctionNodesQuery(main, cross string, radiusM int, lat, lng float64) string {
	a := around(radiusM, lat, lng)
	return fmt.Sprintf(`%sway["name"~"%s",i]%s->.main;way["name"~"%s",i]%s->.cross;node(w.main)(w.cross);out;`,
		header(), escapeRegex(main), a, escapeRegex(cross), a)
}

var regexSpecials = regexp.MustCompile(`[\\.+*?()|\[\]{}^$"]`)

// escapeRegex quotes a road name for use inside a QL regex literal.
// The QL string parser consumes one level of backslash escaping, so
// regex metacharacters need a doubled backslash in the payload.
func escapeRegex(name string) string {
	return regexSpecials.ReplaceAllStringFunc(strings.TrimSpace(name), func(m string) string {
		if m == `"` {
			return `\"`
		}
		return `\\` + m
	})
}
