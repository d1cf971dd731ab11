// Copyright (c) 2026 Receitaria. All rights reserved.
// Author: dev@receitaria.app

// Package clock abstracts wall-clock access so that expiry logic is
// deterministic under test.
//
// All time-based invariants in the credential lifecycle (OTP windows,
// password-change sessions, blocklist purging) read the current time through
// [Clock] rather than calling time.Now directly.
package clock

import "time"

// Clock yields the current time.
type Clock interface {
	Now() time.Time
}

// System is the production [Clock] backed by time.Now.
type System struct{}

// Now implements [Clock].
func (System) Now() time.Time { return time.Now() }
