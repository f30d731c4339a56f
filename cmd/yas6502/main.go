// Command yas6502 assembles a single 6502 source file into a memory image,
// an optional listing, and an optional sparse object file.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"

	"yas6502"
)

// buildVersion is the string printed by -v. The teacher has no release
// tooling that stamps this via ldflags, so it stays a plain constant, as
// cmd/bbcdisasm/main.go's own app metadata does for app.Usage.
const buildVersion = "yas6502 version 1.0.0"

func main() {
	app := &cli.App{
		Name:      "yas6502",
		Usage:     "two-pass assembler for the MOS 6502",
		ArgsUsage: "source-file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "L", Usage: "enable listing output with the default name"},
			&cli.StringFlag{Name: "l", Usage: "listing file path (implies -L)"},
			&cli.StringFlag{Name: "o", Usage: "object file path"},
			&cli.BoolFlag{Name: "v", Usage: "print version and exit"},
			&cli.BoolFlag{Name: "d", Aliases: []string{"debug"}, Usage: "dump the parsed statements and symbol table to stderr"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		if ee, ok := err.(cli.ExitCoder); ok {
			if ee.Error() != "" {
				fmt.Fprintln(os.Stderr, ee.Error())
			}
			os.Exit(ee.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool("v") {
		fmt.Println(buildVersion)
		return nil
	}

	if c.Args().Len() < 1 {
		return cli.Exit("missing source file", 1)
	}
	sourcePath := c.Args().First()

	listingPath := c.String("l")
	wantListing := c.Bool("L") || listingPath != ""
	if wantListing && listingPath == "" {
		listingPath = defaultOutputPath(sourcePath, ".lst")
	}

	objectPath := c.String("o")
	if objectPath == "" {
		objectPath = defaultOutputPath(sourcePath, ".o")
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return cli.Exit(errors.Wrap(err, "reading source file").Error(), 1)
	}

	asm := yas6502.NewAssembler()
	asm.Assemble(string(src))

	if c.Bool("d") {
		spew.Fdump(os.Stderr, asm.Statements)
		spew.Fdump(os.Stderr, asm.Symbols.All())
	}

	if wantListing {
		f, err := os.Create(listingPath)
		if err != nil {
			return cli.Exit(errors.Wrap(err, "creating listing file").Error(), 1)
		}
		werr := yas6502.WriteListing(f, asm.Statements, asm.Diags, asm.Symbols, asm.Image)
		cerr := f.Close()
		if werr != nil {
			return cli.Exit(errors.Wrap(werr, "writing listing file").Error(), 1)
		}
		if cerr != nil {
			return cli.Exit(errors.Wrap(cerr, "closing listing file").Error(), 1)
		}
	}

	if asm.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s: %d error(s); no object file written\n", sourcePath, asm.Diags.ErrorCount())
		return cli.Exit("", 1)
	}

	f, err := os.Create(objectPath)
	if err != nil {
		return cli.Exit(errors.Wrap(err, "creating object file").Error(), 1)
	}
	werr := yas6502.WriteObjectFile(f, asm.Image)
	cerr := f.Close()
	if werr != nil {
		return cli.Exit(errors.Wrap(werr, "writing object file").Error(), 1)
	}
	if cerr != nil {
		return cli.Exit(errors.Wrap(cerr, "closing object file").Error(), 1)
	}

	return nil
}

// defaultOutputPath derives an output path from the source file's base name
// with ext substituted for its extension, mirroring §6's "source base +
// .lst" / "source base + .o" defaults.
func defaultOutputPath(sourcePath, ext string) string {
	base := filepath.Base(sourcePath)
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	return filepath.Join(filepath.Dir(sourcePath), base+ext)
}
