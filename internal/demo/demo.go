// Package demo implements the time-boxed trial connection to the vendor-hosted
// demo editor. The trial runs for a fixed number of days from first
// activation; once it lapses, demo mode can no longer be enabled.
package demo

import "time"

// Vendor demo editor connection values. These are published demo credentials,
// not secrets.
const (
	EditorAddress = "https://onlinedocs.docs.onlyoffice.com"
	TokenHeader   = "AuthorizationJWT"
	SecretKey     = "sn2puSUF7muF5Jas"

	TrialPeriod = 30 * 24 * time.Hour
)

// Trial tracks the demo activation window.
type Trial struct {
	// StartedAt is the first activation time; zero means never activated.
	StartedAt time.Time
}

// Started reports whether the trial has ever been activated.
func (t Trial) Started() bool {
	return !t.StartedAt.IsZero()
}

// ExpiresAt returns the end of the trial window. ok is false when the trial
// has not started.
func (t Trial) ExpiresAt() (expiry time.Time, ok bool) {
	if !t.Started() {
		return time.Time{}, false
	}
	return t.StartedAt.Add(TrialPeriod), true
}

// Available reports whether demo mode may be used at the given time. A trial
// that never started is available; a started trial is available until expiry.
func (t Trial) Available(now time.Time) bool {
	expiry, ok := t.ExpiresAt()
	if !ok {
		return true
	}
	return expiry.After(now)
}

// DaysRemaining returns the whole days left in the trial, never negative.
// A trial that never started has the full period remaining.
func (t Trial) DaysRemaining(now time.Time) int {
	expiry, ok := t.ExpiresAt()
	if !ok {
		return int(TrialPeriod.Hours() / 24)
	}
	remaining := expiry.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Status is the demo state exposed over the API.
type Status struct {
	Enabled       bool       `json:"enabled"`
	Available     bool       `json:"available"`
	DaysRemaining int        `json:"days_remaining"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// StatusAt assembles the API view of the trial.
func StatusAt(t Trial, enabled bool, now time.Time) Status {
	st := Status{
		Enabled:       enabled,
		Available:     t.Available(now),
		DaysRemaining: t.DaysRemaining(now),
	}
	if expiry, ok := t.ExpiresAt(); ok {
		st.ExpiresAt = &expiry
	}
	return st
}
