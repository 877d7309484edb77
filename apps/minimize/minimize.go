// Package minimize wraps an external energy-minimization tool. The
// refinement pipeline treats minimization as a best-effort post-processing
// step: when no minimizer is installed, the structure passes through
// unchanged.
package minimize

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/BurntSushi/cmd"
)

// Config specifies the minimizer executable and how to invoke it. The
// command is run as 'Binary [Args...] input-pdb output-pdb'.
type Config struct {
	// Binary points to the minimizer executable. If it is in your PATH,
	// the bare name is sufficient.
	Binary string

	// Args are extra arguments passed before the input and output paths.
	Args []string

	// Verbose controls whether fallbacks are reported to stderr.
	Verbose bool
}

// DefaultConfig provides some sane defaults to run the minimizer with.
// For example:
//
//	err := minimize.DefaultConfig.Run("in.pdb", "out.pdb")
var DefaultConfig = Config{
	Binary:  "minimize-pdb",
	Verbose: true,
}

// Run minimizes the structure in inPath and writes the result to outPath.
// If the configured binary is not installed, or the minimizer fails, the
// input is copied through unchanged so that the rest of the pipeline keeps
// a structure to work with. Only I/O problems are reported as errors.
func (conf Config) Run(inPath, outPath string) error {
	if _, err := exec.LookPath(conf.Binary); err != nil {
		if conf.Verbose {
			fmt.Fprintf(os.Stderr,
				"minimizer '%s' not found; copying structure through\n",
				conf.Binary)
		}
		return copyFile(inPath, outPath)
	}

	args := append(append([]string{}, conf.Args...), inPath, outPath)
	if err := cmd.New(conf.Binary, args...).Run(); err != nil {
		if conf.Verbose {
			fmt.Fprintf(os.Stderr,
				"minimizer failed (%s); copying structure through\n", err)
		}
		return copyFile(inPath, outPath)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
