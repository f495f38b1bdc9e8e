package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/utils"
)

// Accumulator tracks every canonical number seen so far: the session's known set
// plus whatever the running pass has found.
type Accumulator struct {
	seen map[string]struct{}
	now  func() time.Time
}

// NewAccumulator seeds the accumulator with already-known canonical numbers.
func NewAccumulator(known map[string]struct{}) *Accumulator {
	seen := make(map[string]struct{}, len(known))
	for k := range known {
		seen[k] = struct{}{}
	}
	return &Accumulator{seen: seen, now: time.Now}
}

// Add splits matches from one source into numbers not seen before and duplicates.
// New numbers are remembered, so a later source repeating them counts as duplicate.
func (a *Accumulator) Add(matches []utils.PhoneMatch, source string) (fresh []dto.ExtractedNumber, duplicates int) {
	for _, m := range matches {
		if _, ok := a.seen[m.Canonical]; ok {
			duplicates++
			continue
		}
		a.seen[m.Canonical] = struct{}{}
		fresh = append(fresh, dto.ExtractedNumber{
			ID:        uuid.New().String(),
			Canonical: m.Canonical,
			Original:  m.Original,
			Source:    source,
			FoundAt:   a.now(),
		})
	}
	return fresh, duplicates
}

// Partition splits candidates against known without modifying it. A candidate
// repeated within candidates is new only the first time.
func Partition(candidates []string, known map[string]struct{}) (fresh, duplicate []string) {
	local := make(map[string]struct{})
	for _, c := range candidates {
		_, seenBefore := known[c]
		_, seenHere := local[c]
		if seenBefore || seenHere {
			duplicate = append(duplicate, c)
			continue
		}
		local[c] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh, duplicate
}
