// Package sequence generates document reference numbers.
//
// The historical format PREFIX-YYYYMMDD-HHMMSS collides when two documents of
// the same kind are committed within one second, so a short uuid-derived
// suffix is appended while keeping the human-readable convention:
//
//	SAL-20240315-142233-A9F4C2
package sequence

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator produces unique document numbers for a given prefix.
type Generator interface {
	Next(prefix string) string
}

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time

// TimestampGenerator is the default Generator: timestamp to the second plus a
// 6-hex-digit random suffix.
type TimestampGenerator struct {
	now Clock
}

// New builds a TimestampGenerator. A nil clock defaults to time.Now.
func New(now Clock) *TimestampGenerator {
	if now == nil {
		now = time.Now
	}
	return &TimestampGenerator{now: now}
}

// Next returns the next number for prefix, e.g. "PUR-20240315-142233-A9F4C2".
func (g *TimestampGenerator) Next(prefix string) string {
	ts := g.now().UTC().Format("20060102-150405")
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, ts, suffix)
}
