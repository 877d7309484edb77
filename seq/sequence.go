// Package seq provides types and a global alignment algorithm for amino
// acid sequences.
package seq

// A Sequence corresponds to any kind of biological sequence: DNA, RNA,
// amino acid, secondary structure, etc.
type Sequence struct {
	Name     string
	Residues []Residue
}

// A Residue corresponds to a single entry in a sequence.
type Residue byte

// Gap is the residue used to represent a gap in an alignment.
const Gap Residue = '-'

// Len returns the number of residues in the sequence.
func (s Sequence) Len() int {
	return len(s.Residues)
}

// Slice returns a slice of the sequence. The name stays the same, and the
// sequence of residues corresponds to a Go slice of the original.
// (This does not copy data, so that if the original or sliced sequence is
// changed, the other one will too.)
func (s Sequence) Slice(start, end int) Sequence {
	return Sequence{
		Name:     s.Name,
		Residues: s.Residues[start:end],
	}
}

// String returns the residues of the sequence as a plain string.
func (s Sequence) String() string {
	bs := make([]byte, len(s.Residues))
	for i, r := range s.Residues {
		bs[i] = byte(r)
	}
	return string(bs)
}
