package ordernum

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Generator produces globally unique order numbers. Uniqueness is additionally
// enforced by the order_no unique index, so a collision surfaces as a storage
// conflict rather than a silent duplicate.
type Generator interface {
	Next() string
}

// TimeRandom issues tokens of the form SO-20260115-4F2A9C1B: a date segment
// for operator readability plus 8 hex chars of randomness.
type TimeRandom struct {
	now func() time.Time
}

func NewTimeRandom() *TimeRandom {
	return &TimeRandom{now: time.Now}
}

// NewTimeRandomAt fixes the clock, for tests.
func NewTimeRandomAt(now func() time.Time) *TimeRandom {
	if now == nil {
		now = time.Now
	}
	return &TimeRandom{now: now}
}

func (g *TimeRandom) Next() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// clock so Next never returns an empty token.
		return fmt.Sprintf("SO-%s-%08X", g.now().UTC().Format("20060102"), g.now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("SO-%s-%02X%02X%02X%02X", g.now().UTC().Format("20060102"), buf[0], buf[1], buf[2], buf[3])
}
