package plddt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	t.Run("reads plddt key", func(t *testing.T) {
		scores, err := ParseProfile([]byte(`{"plddt": [91.2, 45.0, 67.8]}`))
		require.NoError(t, err)
		assert.Equal(t, []float64{91.2, 45.0, 67.8}, scores)
	})

	t.Run("falls back to confidenceScore key", func(t *testing.T) {
		scores, err := ParseProfile(
			[]byte(`{"confidenceScore": [50.0, 60.0]}`))
		require.NoError(t, err)
		assert.Equal(t, []float64{50.0, 60.0}, scores)
	})

	t.Run("prefers plddt when both are present", func(t *testing.T) {
		scores, err := ParseProfile(
			[]byte(`{"plddt": [10.0], "confidenceScore": [20.0]}`))
		require.NoError(t, err)
		assert.Equal(t, []float64{10.0}, scores)
	})

	t.Run("rejects documents without a recognized key", func(t *testing.T) {
		_, err := ParseProfile([]byte(`{"residueNumber": [1, 2, 3]}`))
		assert.ErrorIs(t, err, ErrMissingConfidenceKey)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseProfile([]byte(`{"plddt": [`))
		assert.Error(t, err)
	})

	t.Run("rejects non-numeric scores", func(t *testing.T) {
		_, err := ParseProfile([]byte(`{"plddt": ["high", "low"]}`))
		assert.Error(t, err)
	})
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confidence.json")
	require.NoError(t,
		os.WriteFile(path, []byte(`{"plddt": [80.0, 40.0]}`), 0o644))

	scores, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{80.0, 40.0}, scores)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFindRegions(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		threshold float64
		minLength int
		want      []Region
	}{
		{
			name:      "single interior region",
			scores:    []float64{90, 90, 50, 55, 60, 52, 58, 90, 90},
			threshold: 70,
			minLength: 5,
			want:      []Region{{Start: 2, End: 7}},
		},
		{
			name: "six-residue dip between confident flanks",
			scores: []float64{
				90, 90, 90, 90, 90, 50, 50, 50, 50, 50, 50, 90, 90, 90, 90, 90,
			},
			threshold: 70,
			minLength: 5,
			want:      []Region{{Start: 5, End: 11}},
		},
		{
			name: "three-residue dip is too short",
			scores: []float64{
				90, 90, 90, 90, 90, 50, 50, 50, 90, 90, 90, 90, 90,
			},
			threshold: 70,
			minLength: 5,
			want:      []Region{},
		},
		{
			name:      "run shorter than the minimum is dropped",
			scores:    []float64{90, 50, 55, 60, 90},
			threshold: 70,
			minLength: 5,
			want:      []Region{},
		},
		{
			name:      "region reaching the end of the profile",
			scores:    []float64{90, 90, 50, 55, 60, 52, 58},
			threshold: 70,
			minLength: 5,
			want:      []Region{{Start: 2, End: 7}},
		},
		{
			name:      "region starting at the first residue",
			scores:    []float64{50, 55, 60, 52, 58, 90},
			threshold: 70,
			minLength: 5,
			want:      []Region{{Start: 0, End: 5}},
		},
		{
			name: "two regions split by one confident residue",
			scores: []float64{
				50, 55, 60, 52, 58, 90, 50, 55, 60, 52, 58,
			},
			threshold: 70,
			minLength: 5,
			want:      []Region{{Start: 0, End: 5}, {Start: 6, End: 11}},
		},
		{
			name:      "a score equal to the threshold is confident",
			scores:    []float64{70, 70, 70, 70, 70},
			threshold: 70,
			minLength: 1,
			want:      []Region{},
		},
		{
			name:      "empty profile",
			scores:    nil,
			threshold: 70,
			minLength: 5,
			want:      []Region{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindRegions(tt.scores, tt.threshold, tt.minLength)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegionClamp(t *testing.T) {
	t.Run("region inside the sequence is unchanged", func(t *testing.T) {
		assert.Equal(t, Region{Start: 1, End: 3},
			Region{Start: 1, End: 3}.Clamp(5))
	})

	t.Run("end is cut to the sequence length", func(t *testing.T) {
		assert.Equal(t, Region{Start: 2, End: 5},
			Region{Start: 2, End: 9}.Clamp(5))
	})

	t.Run("region wholly beyond the sequence comes back empty", func(t *testing.T) {
		clamped := Region{Start: 6, End: 9}.Clamp(5)
		assert.Equal(t, Region{Start: 5, End: 5}, clamped)
		assert.Zero(t, clamped.Len())

		// Slicing with the clamped bounds must never panic.
		scores := []float64{50, 50, 50, 50, 50}
		assert.NotPanics(t, func() {
			_ = scores[clamped.Start:clamped.End]
		})
	})
}

func TestParseRegion(t *testing.T) {
	t.Run("converts to half-open zero-based", func(t *testing.T) {
		region, err := ParseRegion("5-10")
		require.NoError(t, err)
		assert.Equal(t, Region{Start: 4, End: 10}, region)
		assert.Equal(t, 6, region.Len())
	})

	t.Run("accepts a single-residue region", func(t *testing.T) {
		region, err := ParseRegion("3-3")
		require.NoError(t, err)
		assert.Equal(t, Region{Start: 2, End: 3}, region)
	})

	t.Run("tolerates whitespace", func(t *testing.T) {
		region, err := ParseRegion(" 5 - 10 ")
		require.NoError(t, err)
		assert.Equal(t, Region{Start: 4, End: 10}, region)
	})

	for _, bad := range []string{"", "5", "a-b", "5-", "-10", "0-4", "9-5"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseRegion(bad)
			assert.ErrorIs(t, err, ErrInvalidRangeFormat)
		})
	}
}
