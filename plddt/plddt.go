// Package plddt loads per-residue confidence profiles and segments them
// into contiguous low-confidence regions worth refining.
package plddt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrMissingConfidenceKey is returned when a confidence file has none of
// the recognized score keys. This is fatal to a run: without a profile
// there is nothing to segment.
var ErrMissingConfidenceKey = errors.New(
	"no recognized confidence key (\"plddt\" or \"confidenceScore\")")

// ErrInvalidRangeFormat is returned when an operator-supplied region
// override cannot be parsed.
var ErrInvalidRangeFormat = errors.New("invalid region format")

// confidenceKeys are the accepted JSON keys for the per-residue score list,
// tried in order. AlphaFold's confidence files have used both.
var confidenceKeys = []string{"plddt", "confidenceScore"}

// A Region is a half-open interval [Start, End) of 0-based residue indices.
type Region struct {
	Start, End int
}

// Len returns the number of residues covered by the region.
func (r Region) Len() int {
	return r.End - r.Start
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Clamp restricts the region to a sequence of length n, so that slicing
// with the result is always in bounds. A region lying wholly beyond the
// sequence comes back empty. Useful for operator-supplied regions, which
// may exceed the structure or its confidence profile.
func (r Region) Clamp(n int) Region {
	if r.Start > n {
		r.Start = n
	}
	if r.End > n {
		r.End = n
	}
	return r
}

// ParseProfile decodes a confidence JSON document into a score-per-residue
// profile. The document must be an object carrying one of the recognized
// confidence keys; otherwise ErrMissingConfidenceKey is returned.
func ParseProfile(data []byte) ([]float64, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed confidence JSON: %w", err)
	}
	for _, key := range confidenceKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var scores []float64
		if err := json.Unmarshal(raw, &scores); err != nil {
			return nil, fmt.Errorf("confidence key %q is not a list of "+
				"numbers: %w", key, err)
		}
		return scores, nil
	}
	return nil, ErrMissingConfidenceKey
}

// LoadProfile reads and decodes the confidence JSON file at the given path.
func LoadProfile(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scores, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scores, nil
}

// FindRegions returns every maximal run of scores below threshold that is
// at least minLength residues long, as half-open 0-based intervals in
// ascending order. The runs are maximal: a region can never be extended
// without crossing a score at or above the threshold.
func FindRegions(scores []float64, threshold float64, minLength int) []Region {
	regions := make([]Region, 0, 4)

	// Scan for transitions as if the below-threshold mask were padded with
	// a false sentinel on both ends.
	start := -1
	for i, score := range scores {
		below := score < threshold
		switch {
		case below && start < 0:
			start = i
		case !below && start >= 0:
			if i-start >= minLength {
				regions = append(regions, Region{Start: start, End: i})
			}
			start = -1
		}
	}
	if start >= 0 && len(scores)-start >= minLength {
		regions = append(regions, Region{Start: start, End: len(scores)})
	}
	return regions
}

// ParseRegion converts an operator-supplied "start-end" region override
// (1-based, inclusive on both ends) into the internal half-open 0-based
// representation. Errors wrap ErrInvalidRangeFormat.
func ParseRegion(s string) (Region, error) {
	lhs, rhs, ok := strings.Cut(s, "-")
	if !ok {
		return Region{}, fmt.Errorf("%w: %q is not of the form start-end",
			ErrInvalidRangeFormat, s)
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(lhs))
	end, err2 := strconv.Atoi(strings.TrimSpace(rhs))
	if err1 != nil || err2 != nil {
		return Region{}, fmt.Errorf("%w: %q is not of the form start-end",
			ErrInvalidRangeFormat, s)
	}
	if start < 1 || end < start {
		return Region{}, fmt.Errorf("%w: %q must satisfy 1 <= start <= end",
			ErrInvalidRangeFormat, s)
	}
	return Region{Start: start - 1, End: end}, nil
}
