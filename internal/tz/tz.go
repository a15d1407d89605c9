// Package tz converts between wall-clock date-times authored in an IANA
// time zone and canonical UTC instants, and back.
package tz

import (
	"fmt"
	"time"
)

// Layout is the wall-clock format accepted and produced by this package:
// a local date and time with no offset.
const Layout = "2006-01-02T15:04"

// DisplayLayout is the human-readable form used when rendering audit
// timestamps in a viewer's zone.
const DisplayLayout = "2006-01-02 15:04"

// UnknownZoneError indicates a zone id the IANA database does not know.
type UnknownZoneError struct {
	Zone string
	Err  error
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("unknown time zone %q", e.Zone)
}

func (e *UnknownZoneError) Unwrap() error { return e.Err }

// InvalidDateTimeError indicates a malformed wall-clock value.
type InvalidDateTimeError struct {
	Value string
	Err   error
}

func (e *InvalidDateTimeError) Error() string {
	return fmt.Sprintf("invalid date-time %q, want %s", e.Value, Layout)
}

func (e *InvalidDateTimeError) Unwrap() error { return e.Err }

// Validate reports whether zone is a known IANA zone id.
func Validate(zone string) error {
	if _, err := time.LoadLocation(zone); err != nil {
		return &UnknownZoneError{Zone: zone, Err: err}
	}
	return nil
}

// ToUTC interprets local as a wall-clock time occurring in zone, resolving
// the zone's UTC offset at that moment (including DST transitions), and
// returns the equivalent UTC instant.
func ToUTC(local, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, &UnknownZoneError{Zone: zone, Err: err}
	}
	t, err := time.ParseInLocation(Layout, local, loc)
	if err != nil {
		return time.Time{}, &InvalidDateTimeError{Value: local, Err: err}
	}
	return t.UTC(), nil
}

// FromUTC renders a UTC instant as wall-clock text in the target zone.
// It is the inverse of ToUTC for any instant that round-trips through the
// zone's offset rules.
func FromUTC(t time.Time, zone string) (string, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", &UnknownZoneError{Zone: zone, Err: err}
	}
	return t.In(loc).Format(Layout), nil
}

// Display renders a UTC instant in the target zone using DisplayLayout.
func Display(t time.Time, zone string) (string, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", &UnknownZoneError{Zone: zone, Err: err}
	}
	return t.In(loc).Format(DisplayLayout), nil
}
