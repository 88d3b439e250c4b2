package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentInterval is an existing time-bounded assignment used as input
// to overlap detection.
type AssignmentInterval struct {
	ID    uuid.UUID
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [existingStart, existingEnd) properly overlaps
// [candidateStart, candidateEnd): existing.start < candidate.end AND
// existing.end > candidate.start. Touching endpoints do not overlap.
func Overlaps(existingStart, existingEnd, candidateStart, candidateEnd time.Time) bool {
	return existingStart.Before(candidateEnd) && existingEnd.After(candidateStart)
}

// FindOverlaps returns the existing intervals that overlap the candidate
// window, skipping the record identified by excludeID (pass uuid.Nil to
// exclude nothing).
func FindOverlaps(existing []AssignmentInterval, candidateStart, candidateEnd time.Time, excludeID uuid.UUID) []AssignmentInterval {
	var conflicts []AssignmentInterval
	for _, iv := range existing {
		if excludeID != uuid.Nil && iv.ID == excludeID {
			continue
		}
		if Overlaps(iv.Start, iv.End, candidateStart, candidateEnd) {
			conflicts = append(conflicts, iv)
		}
	}
	return conflicts
}

// HasOverlap reports whether any existing interval overlaps the candidate
// window, with the same exclusion rule as FindOverlaps.
func HasOverlap(existing []AssignmentInterval, candidateStart, candidateEnd time.Time, excludeID uuid.UUID) bool {
	return len(FindOverlaps(existing, candidateStart, candidateEnd, excludeID)) > 0
}
