// Package point wraps shaped fields into the record written to the sink.
package point

import (
	"strings"
	"time"

	"github.com/HerbHall/sysmon/internal/shaper"
)

// Measurement is the name every point is written under.
const Measurement = "sysmon"

// TagHostname is the only tag on a point.
const TagHostname = "hostname"

// Point is one measurement record.
type Point struct {
	Measurement string
	Tags        map[string]string
	Fields      shaper.FieldSet
	// Time is zero when the sink should assign the write time.
	Time time.Time
}

// Build wraps fields into a Point for hostname. It performs no I/O.
func Build(fields shaper.FieldSet, hostname string) Point {
	return Point{
		Measurement: Measurement,
		Tags:        map[string]string{TagHostname: hostname},
		Fields:      fields,
	}
}

// ResolveHostname returns the first non-empty override, falling back to
// osHostname. An OS lookup failure yields an empty hostname.
func ResolveHostname(osHostname func() (string, error), overrides ...string) string {
	for _, o := range overrides {
		if o = strings.TrimSpace(o); o != "" {
			return o
		}
	}
	if osHostname == nil {
		return ""
	}
	h, err := osHostname()
	if err != nil {
		return ""
	}
	return h
}
