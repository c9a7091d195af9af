// Package biztime keeps storage and transport in UTC and converts to the
// store's business timezone only for display, such as dates in shopper
// emails.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when the server config leaves timezone empty.
const DefaultTimezone = "UTC"

var (
	bizLocation   *time.Location
	bizLocationMu sync.RWMutex
)

// Init sets the business timezone. Should be called once at startup.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}
	bizLocationMu.Lock()
	bizLocation = loc
	bizLocationMu.Unlock()
	return nil
}

// Location returns the business timezone, UTC when Init was never called.
func Location() *time.Location {
	bizLocationMu.RLock()
	defer bizLocationMu.RUnlock()
	if bizLocation == nil {
		return time.UTC
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToBizTimezone converts t to the business timezone.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// FormatDate renders t as a calendar date in the business timezone.
func FormatDate(t time.Time) string {
	return ToBizTimezone(t).Format("January 2, 2006")
}
