package pdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Write writes every chain of the entry as fixed-column ATOM records,
// terminated by TER and END records. Only the subset of the format read by
// this package is written; occupancy and temperature factor columns are
// filled with neutral values.
func (e *Entry) Write(w io.Writer) error {
	buf := bufio.NewWriter(w)
	serial := 1
	for _, chain := range e.Chains {
		for _, residue := range chain.Residues {
			for _, atom := range residue.Atoms {
				_, err := fmt.Fprintf(buf,
					"ATOM  %5d %s %3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f\n",
					serial, formatAtomName(atom.Name),
					AminoOneToThree[residue.Name], chain.Ident,
					residue.SequenceNum, atom.X, atom.Y, atom.Z, 1.0, 0.0)
				if err != nil {
					return err
				}
				serial++
			}
		}
		if _, err := fmt.Fprintf(buf, "TER   %5d\n", serial); err != nil {
			return err
		}
		serial++
	}
	if _, err := fmt.Fprintln(buf, "END"); err != nil {
		return err
	}
	return buf.Flush()
}

// WriteFile writes the entry to the given file path, overwriting any
// existing file.
func (e *Entry) WriteFile(fileName string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.Write(f)
}

// formatAtomName lays out an atom name in the four columns the PDB format
// reserves for it. Names shorter than four characters start in the second
// column.
func formatAtomName(name string) string {
	if len(name) >= 4 {
		return name[0:4]
	}
	return fmt.Sprintf(" %-3s", name)
}
