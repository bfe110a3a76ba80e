package metrics

import (
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

// readSysfsTemperatures reads temperature inputs from a sysfs tree rooted
// at fsys, preferring hwmon and falling back to thermal zones. Entries
// that cannot be read are skipped; a host without either yields an empty
// record.
func readSysfsTemperatures(fsys fs.FS) (TemperatureRecord, error) {
	rec, err := readHwmon(fsys)
	if err != nil {
		return nil, err
	}
	if len(rec) > 0 {
		return rec, nil
	}
	return readThermalZones(fsys)
}

// readHwmon walks class/hwmon. Inputs are visited in sorted path
// order and grouped under the chip's "name" file.
func readHwmon(fsys fs.FS) (TemperatureRecord, error) {
	var matches []string
	for _, pattern := range []string{
		"class/hwmon/hwmon*/temp*_*",
		"class/hwmon/hwmon*/device/temp*_*",
	} {
		m, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m...)
	}

	seen := make(map[string]struct{}, len(matches))
	bases := make([]string, 0, len(matches))
	for _, m := range matches {
		dir, file := path.Split(m)
		prefix, _, _ := strings.Cut(file, "_")
		base := dir + prefix
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		bases = append(bases, base)
	}
	sort.Strings(bases)

	chips := newChipIndex()
	for _, base := range bases {
		current, err := readMilli(fsys, base+"_input")
		if err != nil {
			continue
		}
		name, err := readTrimmed(fsys, path.Join(path.Dir(base), "name"))
		if err != nil {
			continue
		}
		label, _ := readTrimmed(fsys, base+"_label")

		p := Reading{Label: label, Current: current}
		if v, err := readMilli(fsys, base+"_max"); err == nil {
			p.High = &v
		}
		if v, err := readMilli(fsys, base+"_crit"); err == nil {
			p.Critical = &v
		}
		chips.add(name, p)
	}
	return chips.record, nil
}

// readThermalZones walks class/thermal, using each zone's type as the
// chip name and its high/critical trip points as thresholds.
func readThermalZones(fsys fs.FS) (TemperatureRecord, error) {
	zones, err := fs.Glob(fsys, "class/thermal/thermal_zone*")
	if err != nil {
		return nil, err
	}
	sort.Strings(zones)

	chips := newChipIndex()
	for _, zone := range zones {
		current, err := readMilli(fsys, path.Join(zone, "temp"))
		if err != nil {
			continue
		}
		name, err := readTrimmed(fsys, path.Join(zone, "type"))
		if err != nil {
			continue
		}

		p := Reading{Current: current}
		trips, _ := fs.Glob(fsys, path.Join(zone, "trip_point_*_type"))
		sort.Strings(trips)
		for _, trip := range trips {
			kind, err := readTrimmed(fsys, trip)
			if err != nil {
				continue
			}
			v, err := readMilli(fsys, strings.TrimSuffix(trip, "_type")+"_temp")
			if err != nil {
				continue
			}
			switch kind {
			case "critical":
				p.Critical = &v
			case "high":
				p.High = &v
			}
		}
		chips.add(name, p)
	}
	return chips.record, nil
}

func readTrimmed(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// readMilli reads a millidegree value and converts it to degrees.
func readMilli(fsys fs.FS, name string) (float64, error) {
	s, err := readTrimmed(fsys, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v / 1000, nil
}
