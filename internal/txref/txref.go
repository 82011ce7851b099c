// Package txref encodes the plan identity into gateway transaction
// references so that a callback can be traced back to the plan it paid for.
package txref

import (
	"fmt"
	"strings"
	"time"
)

const prefix = "plan"

// Encode builds a gateway transaction reference for the given plan ID. The
// trailing timestamp keeps references unique across retries for the same
// plan.
func Encode(planID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", prefix, planID, at.UnixMilli())
}

// Decode extracts the plan ID from a transaction reference produced by
// Encode. It returns false for anything that does not carry at least the
// prefix and a plan segment; it never panics on malformed input.
func Decode(ref string) (string, bool) {
	parts := strings.Split(ref, "_")
	if len(parts) < 2 || parts[0] != prefix {
		return "", false
	}
	// plan IDs may themselves contain underscores; the last segment is the
	// timestamp when there are at least three parts.
	segs := parts[1:]
	if len(segs) > 1 {
		segs = segs[:len(segs)-1]
	}
	planID := strings.Join(segs, "_")
	if planID == "" {
		return "", false
	}
	return planID, true
}
