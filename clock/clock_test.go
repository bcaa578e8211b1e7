package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixed(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestClockFormats(t *testing.T) {
	c := New(DefaultZone)
	c.Now = fixed(time.Date(2026, 3, 4, 1, 2, 3, 0, time.UTC))

	// 01:02:03 UTC is 08:02:03 in Jakarta.
	assert.Equal(t, "2026-03-04T08:02:03Z", c.String())
	assert.Equal(t, "2026-03-04T08-02-03Z", c.SaveString())
	assert.Equal(t, "04/03/2026 08:02:03", c.HumanReadable())
	assert.Equal(t, "04/03/2026:08:02:03", c.LogFormat())
}

func TestClockDayRollover(t *testing.T) {
	c := Default()
	c.Now = fixed(time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, "01/01/2027 03:00:00", c.HumanReadable())
}

func TestNewUnknownZoneFallsBack(t *testing.T) {
	c := New("Not/AZone")
	c.Now = fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-01-01T07:00:00Z", c.String())
}

func TestZeroClock(t *testing.T) {
	var c Clock
	assert.Equal(t, time.UTC, c.Current().Location())
}

func TestSystemLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "id_ID.UTF-8")
	assert.Equal(t, "id-ID", SystemLocale())

	t.Setenv("LANG", "C")
	assert.Equal(t, "en-US", SystemLocale())
}

func TestSystemTimezone(t *testing.T) {
	t.Setenv("TZ", "Asia/Jakarta")
	assert.Equal(t, "Asia/Jakarta", SystemTimezone())
}
