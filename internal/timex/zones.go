package timex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Zone pairs an IANA zone identifier with a display label carrying the
// zone's current UTC offset, e.g. "(GMT +02:00) Europe/Riga".
type Zone struct {
	Name  string
	Label string
}

// zoneDirs lists the places the system timezone database may live in,
// mirroring the lookup order of time.LoadLocation.
var zoneDirs = []string{
	"/usr/share/zoneinfo/",
	"/usr/share/lib/zoneinfo/",
	"/usr/lib/locale/TZ/",
}

// Zones enumerates all known IANA zone identifiers, labelled with the
// UTC offset each zone has right now. The result is sorted by name.
func Zones() ([]Zone, error) {
	return ZonesAt(time.Now())
}

// ZonesAt is Zones evaluated at an arbitrary instant, so offsets reflect
// the DST rules in force at that moment.
func ZonesAt(at time.Time) ([]Zone, error) {
	names, err := zoneNames()
	if err != nil {
		return nil, err
	}

	zones := make([]Zone, 0, len(names))
	for _, name := range names {
		loc, err := time.LoadLocation(name)
		if err != nil {
			// A stray non-TZif file slipped through the scan; skip it.
			continue
		}
		_, offset := at.In(loc).Zone()
		zones = append(zones, Zone{Name: name, Label: fmt.Sprintf("(GMT %s) %s", formatOffset(offset), name)})
	}

	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	return zones, nil
}

// zoneNames scans the timezone database directories for zone identifiers.
// The ZONEINFO environment variable, when set, takes priority, matching
// the behavior of time.LoadLocation.
func zoneNames() ([]string, error) {
	dirs := zoneDirs
	if env := os.Getenv("ZONEINFO"); env != "" {
		dirs = append([]string{env}, dirs...)
	}

	for _, dir := range dirs {
		names := scanZoneDir(dir, "")
		if len(names) > 0 {
			return names, nil
		}
	}
	return nil, fmt.Errorf("no timezone database found in %v", dirs)
}

func scanZoneDir(base, prefix string) []string {
	entries, err := os.ReadDir(filepath.Join(base, prefix))
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		// Zone identifiers start with an uppercase letter (Europe/Riga, UTC);
		// this skips auxiliary files like zone.tab and the posix/right trees.
		if name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		full := name
		if prefix != "" {
			full = prefix + "/" + name
		}
		if e.IsDir() {
			names = append(names, scanZoneDir(base, full)...)
			continue
		}
		if strings.Contains(name, ".") {
			continue
		}
		names = append(names, full)
	}
	return names
}

func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
