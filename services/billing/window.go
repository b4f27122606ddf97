package billing

import (
	"fmt"
	"strings"
	"time"

	"parkwise/config"
)

type OvernightTrigger string

const (
	// TriggerFullWindow counts a night when the session covers a whole window occurrence.
	TriggerFullWindow OvernightTrigger = "full_window"
	// TriggerCrossesStart counts a night when the session is parked at a window start.
	TriggerCrossesStart OvernightTrigger = "crosses_start"
)

type OvernightMode string

const (
	ModeReplace OvernightMode = "replace"
	ModeAdd     OvernightMode = "add"
)

// Window is a daily time range in minutes after local midnight. It wraps midnight when Start > End.
type Window struct {
	Start int
	End   int
}

// Policy holds the lot-independent overnight rules.
type Policy struct {
	Window   Window
	Location *time.Location
	Trigger  OvernightTrigger
	Mode     OvernightMode
}

// DefaultPolicy is 22:00 to 06:00 UTC, full window, replace.
func DefaultPolicy() Policy {
	return Policy{
		Window:   Window{Start: 22 * 60, End: 6 * 60},
		Location: time.UTC,
		Trigger:  TriggerFullWindow,
		Mode:     ModeReplace,
	}
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// PolicyFromConfig builds a Policy from the billing section of the app config.
func PolicyFromConfig(cfg config.BillingConfig) (Policy, error) {
	start, err := ParseClock(cfg.OvernightStart)
	if err != nil {
		return Policy{}, fmt.Errorf("overnight start: %w", err)
	}
	end, err := ParseClock(cfg.OvernightEnd)
	if err != nil {
		return Policy{}, fmt.Errorf("overnight end: %w", err)
	}
	if start == end {
		return Policy{}, fmt.Errorf("overnight window %s-%s is empty", cfg.OvernightStart, cfg.OvernightEnd)
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return Policy{}, fmt.Errorf("billing timezone: %w", err)
		}
	}

	p := Policy{
		Window:   Window{Start: start, End: end},
		Location: loc,
		Trigger:  OvernightTrigger(strings.ToLower(cfg.OvernightTrigger)),
		Mode:     OvernightMode(strings.ToLower(cfg.OvernightMode)),
	}
	switch p.Trigger {
	case TriggerFullWindow, TriggerCrossesStart:
	case "":
		p.Trigger = TriggerFullWindow
	default:
		return Policy{}, fmt.Errorf("unknown overnight trigger %q", cfg.OvernightTrigger)
	}
	switch p.Mode {
	case ModeReplace, ModeAdd:
	case "":
		p.Mode = ModeReplace
	default:
		return Policy{}, fmt.Errorf("unknown overnight mode %q", cfg.OvernightMode)
	}
	return p, nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// occurrence returns the window that starts on the given local calendar day.
func (p Policy) occurrence(y int, m time.Month, d int) (time.Time, time.Time) {
	loc := p.location()
	start := time.Date(y, m, d, p.Window.Start/60, p.Window.Start%60, 0, 0, loc)
	endDay := d
	if p.Window.End <= p.Window.Start {
		endDay++
	}
	end := time.Date(y, m, endDay, p.Window.End/60, p.Window.End%60, 0, 0, loc)
	return start, end
}

// Nights counts the window occurrences the interval [entry, exit] spans under the policy trigger.
func (p Policy) Nights(entry, exit time.Time) int {
	if !exit.After(entry) {
		return 0
	}
	loc := p.location()
	e, x := entry.In(loc), exit.In(loc)

	nights := 0
	// Start one day early so a window that began the evening before entry is considered.
	cur := time.Date(e.Year(), e.Month(), e.Day()-1, 0, 0, 0, 0, loc)
	last := time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, loc)
	for !cur.After(last) {
		start, end := p.occurrence(cur.Year(), cur.Month(), cur.Day())
		switch p.Trigger {
		case TriggerCrossesStart:
			if !start.Before(entry) && start.Before(exit) {
				nights++
			}
		default:
			if !start.Before(entry) && !end.After(exit) {
				nights++
			}
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return nights
}
