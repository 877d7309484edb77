// Package pdb reads and writes a useful subset of the PDB file format:
// enough to track each residue of a protein chain along with its named
// atoms and their coordinates.
package pdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"refinery/seq"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]seq.Residue{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// AminoOneToThree is the reverse of AminoThreeToOne. It is created in
// this package's 'init' function.
var AminoOneToThree = map[seq.Residue]string{}

func init() {
	for k, v := range AminoThreeToOne {
		AminoOneToThree[v] = k
	}
}

// Coords is a 3-dimensional position in angstroms.
type Coords struct {
	X, Y, Z float64
}

// Atom is a single named atom with a coordinate.
type Atom struct {
	Name string
	Coords
}

// Residue is a single amino acid residue along with every atom of it that
// appeared as an ATOM record.
type Residue struct {
	Name        seq.Residue
	SequenceNum int
	Atoms       []Atom
}

// Atom returns the named atom in this residue, or nil if the residue has
// no such atom.
func (r *Residue) Atom(name string) *Atom {
	for i := range r.Atoms {
		if r.Atoms[i].Name == name {
			return &r.Atoms[i]
		}
	}
	return nil
}

// Chain represents a protein chain or subunit in a PDB file. Each chain has
// its own identifier, the amino acid sequence found in SEQRES records (which
// may be empty) and the ordered residues read from ATOM records.
type Chain struct {
	Entry    *Entry
	Ident    byte
	Sequence []seq.Residue
	Residues []*Residue
}

// Entry represents all information read from a particular PDB file (that
// has been implemented in this package).
type Entry struct {
	Path   string
	IdCode string
	Chains []*Chain
}

// Read creates a new PDB Entry from a file. If the file cannot be read, or
// there is an error parsing the PDB file, an error is returned.
//
// If the file name ends with ".gz", gzip decompression will be used.
func Read(fileName string) (*Entry, error) {
	var reader io.Reader
	var err error

	reader, err = os.Open(fileName)
	if err != nil {
		return nil, err
	}
	if path.Ext(fileName) == ".gz" {
		reader, err = gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
	}

	entry := &Entry{
		Path:   fileName,
		Chains: make([]*Chain, 0, 1),
	}

	// Now traverse each line, and process it according to the record name.
	// We never care about lines longer than 1000 characters, which is the
	// size of our buffer.
	breader := bufio.NewReaderSize(reader, 1000)
	for {
		line, _, err := breader.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(line) < 6 {
			continue
		}

		// The record name is always in the first six columns.
		switch strings.TrimSpace(string(line[0:6])) {
		case "HEADER":
			entry.parseHeader(line)
		case "SEQRES":
			entry.parseSeqres(line)
		case "ATOM":
			entry.parseAtom(line)
		}
	}
	return entry, nil
}

// Chain returns the chain with the given identifier, or nil if no such
// chain exists.
func (e *Entry) Chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// FirstChain returns the first chain read from the entry. It panics if the
// entry has no chains at all.
func (e *Entry) FirstChain() *Chain {
	if len(e.Chains) == 0 {
		panic(fmt.Sprintf("PDB entry '%s' has no chains.", e.Path))
	}
	return e.Chains[0]
}

// getOrMakeChain looks for a chain with the given identifier. If one exists,
// it is returned. Otherwise it is created, added to the entry and returned.
func (e *Entry) getOrMakeChain(ident byte) *Chain {
	if ident == ' ' {
		ident = '_'
	}
	if chain := e.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Entry:    e,
		Ident:    ident,
		Sequence: make([]seq.Residue, 0, 10),
		Residues: make([]*Residue, 0, 10),
	}
	e.Chains = append(e.Chains, chain)
	return chain
}

// parseHeader reads the ID code from a HEADER record, columns 63-66.
func (e *Entry) parseHeader(line []byte) {
	if len(line) >= 66 {
		e.IdCode = strings.TrimSpace(string(line[62:66]))
	}
}

// parseSeqres loads all pertinent information from SEQRES records in a PDB
// file. Amino acid residues are read and appended to the chain's Sequence
// field. Residues that aren't valid amino acids are simply ignored.
//
// N.B. This assumes that the SEQRES records are in order in the PDB file.
func (e *Entry) parseSeqres(line []byte) {
	chain := e.getOrMakeChain(line[11])

	// Residues are in columns 19-21, 23-25, 27-29, ..., 67-69. Lines are
	// not always padded to 80 columns, so a residue ending exactly at the
	// end of the line still counts.
	for i := 19; i <= 67; i += 4 {
		end := i + 3
		if end > len(line) {
			break
		}
		residue := strings.TrimSpace(string(line[i:end]))
		if single, ok := AminoThreeToOne[residue]; ok {
			chain.Sequence = append(chain.Sequence, single)
		}
	}
}

// parseAtom loads all pertinent information from ATOM records in a PDB file.
// Atoms with the same residue sequence number are grouped into a single
// Residue. ATOM records without a valid amino acid residue name in columns
// 18-20 are ignored, as are alternate locations other than blank or 'A'.
func (e *Entry) parseAtom(line []byte) {
	if len(line) < 54 {
		return
	}
	chain := e.getOrMakeChain(line[21])

	resName := strings.TrimSpace(string(line[17:20]))
	single, ok := AminoThreeToOne[resName]
	if !ok {
		return
	}

	if altLoc := line[16]; altLoc != ' ' && altLoc != 'A' {
		return
	}

	snum := strings.TrimSpace(string(line[22:26]))
	num, err := strconv.ParseInt(snum, 10, 32)
	if err != nil {
		return
	}

	atom := Atom{Name: strings.TrimSpace(string(line[12:16]))}
	atom.X = parseFloat(line[30:38])
	atom.Y = parseFloat(line[38:46])
	atom.Z = parseFloat(line[46:54])

	residue := chain.lastResidue()
	if residue == nil || residue.SequenceNum != int(num) {
		residue = &Residue{
			Name:        single,
			SequenceNum: int(num),
			Atoms:       make([]Atom, 0, 4),
		}
		chain.Residues = append(chain.Residues, residue)
	}
	residue.Atoms = append(residue.Atoms, atom)
}

func (c *Chain) lastResidue() *Residue {
	if len(c.Residues) == 0 {
		return nil
	}
	return c.Residues[len(c.Residues)-1]
}

func parseFloat(bs []byte) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(string(bs)), 64)
	return f
}

// CaResidues returns the ordered list of residues that expose a carbon-alpha
// atom. These are the residues tracked by refinement and comparison.
func (c *Chain) CaResidues() []*Residue {
	residues := make([]*Residue, 0, len(c.Residues))
	for _, residue := range c.Residues {
		if residue.Atom("CA") != nil {
			residues = append(residues, residue)
		}
	}
	return residues
}

// CaCoords returns the coordinates of every carbon-alpha atom in the chain,
// in residue order. The slice is index-aligned with CaResidues.
func (c *Chain) CaCoords() []Coords {
	residues := c.CaResidues()
	coords := make([]Coords, len(residues))
	for i, residue := range residues {
		coords[i] = residue.Atom("CA").Coords
	}
	return coords
}

// CaSequence returns the one-letter sequence derived from the residues that
// expose a carbon-alpha atom, index-aligned with CaResidues.
func (c *Chain) CaSequence() []seq.Residue {
	residues := c.CaResidues()
	rs := make([]seq.Residue, len(residues))
	for i, residue := range residues {
		rs[i] = residue.Name
	}
	return rs
}

// SetCaCoords overwrites the coordinates of every carbon-alpha atom in the
// chain with the given coordinate set. The length of coords must equal the
// number of residues exposing a carbon-alpha atom.
func (c *Chain) SetCaCoords(coords []Coords) error {
	residues := c.CaResidues()
	if len(coords) != len(residues) {
		return fmt.Errorf("chain %c has %d carbon-alpha atoms, but %d "+
			"coordinates were given", c.Ident, len(residues), len(coords))
	}
	for i, residue := range residues {
		residue.Atom("CA").Coords = coords[i]
	}
	return nil
}

// String returns a FASTA-like formatted string of this chain and all of its
// related information.
func (c *Chain) String() string {
	rs := c.CaSequence()
	bs := make([]byte, len(rs))
	for i, r := range rs {
		bs[i] = byte(r)
	}
	return fmt.Sprintf("> Chain %c :: length %d\n%s", c.Ident, len(rs), bs)
}
