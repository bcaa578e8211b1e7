// Package clock formats the current time in a fixed zone.
package clock

import (
	"os"
	"strings"
	"time"
)

// DefaultZone is the zone used by Default.
const DefaultZone = "Asia/Jakarta"

// Layouts
const (
	StringLayout        = "2006-01-02T15:04:05Z"
	SaveStringLayout    = "2006-01-02T15-04-05Z"
	HumanReadableLayout = "02/01/2006 15:04:05"
	LogLayout           = "02/01/2006:15:04:05"
)

// Clock reads the current time in Location.
type Clock struct {
	Location *time.Location
	// Now returns the current instant. Nil means time.Now.
	Now func() time.Time
}

// Default returns a clock in Asia/Jakarta. When the tz database is missing,
// a fixed +07:00 zone with the same name is used.
func Default() Clock {
	return New(DefaultZone)
}

// New returns a clock in the named zone, falling back to a fixed +07:00 zone
// when the name cannot be loaded.
func New(zone string) Clock {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.FixedZone(zone, 7*60*60)
	}
	return Clock{Location: loc}
}

// Current returns the current time in the clock's location.
func (c Clock) Current() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

// String formats the current wall-clock time as 2006-01-02T15:04:05Z.
// The trailing Z is literal: the digits are local to the clock's zone.
func (c Clock) String() string {
	return c.Current().Format(StringLayout)
}

// SaveString is String with dashes in the time, safe for file names.
func (c Clock) SaveString() string {
	return c.Current().Format(SaveStringLayout)
}

// HumanReadable formats the current time as 02/01/2006 15:04:05.
func (c Clock) HumanReadable() string {
	return c.Current().Format(HumanReadableLayout)
}

// LogFormat formats the current time as 02/01/2006:15:04:05.
func (c Clock) LogFormat() string {
	return c.Current().Format(LogLayout)
}

// SystemTimezone returns the host's zone name, preferring $TZ.
func SystemTimezone() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	name, _ := time.Now().Zone()
	return name
}

// SystemLocale returns the host locale as a BCP 47 style tag ("en-US") read from
// LC_ALL, LC_MESSAGES or LANG. It returns "en-US" when none is usable.
func SystemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		v, _, _ = strings.Cut(v, "@")
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en-US"
}
