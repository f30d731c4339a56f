package yas6502

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const objBytesPerLine = 16

// WriteObjectFile writes img's defined cells in the `@XXXX` / `XX` token
// format: a new `@` address token precedes any run of bytes that is not
// contiguous with the previous run, and at most 16 byte tokens appear per
// line.
func WriteObjectFile(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)

	addr := -1
	col := 0
	for cell := 0; cell < ImageSize; cell++ {
		if !img.Written(cell) {
			continue
		}
		if cell != addr {
			if addr != -1 && col != 0 {
				if _, err := bw.WriteString("\n"); err != nil {
					return errors.Wrap(err, "writing object file")
				}
			}
			if _, err := fmt.Fprintf(bw, "@%04X\n", cell); err != nil {
				return errors.Wrap(err, "writing object file")
			}
			col = 0
		}
		if col > 0 {
			if err := bw.WriteByte(' '); err != nil {
				return errors.Wrap(err, "writing object file")
			}
		}
		if _, err := fmt.Fprintf(bw, "%02X", img.At(cell)&0xFF); err != nil {
			return errors.Wrap(err, "writing object file")
		}
		col++
		addr = cell + 1
		if col == objBytesPerLine {
			if _, err := bw.WriteString("\n"); err != nil {
				return errors.Wrap(err, "writing object file")
			}
			col = 0
		}
	}
	if col != 0 {
		if _, err := bw.WriteString("\n"); err != nil {
			return errors.Wrap(err, "writing object file")
		}
	}
	return errors.Wrap(bw.Flush(), "writing object file")
}

// ReadObjectFile parses the `@XXXX` / `XX` token format produced by
// WriteObjectFile, replaying it onto a fresh Image. Used by the R1
// round-trip property: read-back must reproduce the written cells exactly.
func ReadObjectFile(r io.Reader) (*Image, error) {
	img := NewImage()
	addr := -1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		for _, tok := range strings.Fields(scanner.Text()) {
			if strings.HasPrefix(tok, "@") {
				v, err := strconv.ParseInt(tok[1:], 16, 32)
				if err != nil {
					return nil, errors.Wrapf(err, "object file line %d: invalid address token %q", line, tok)
				}
				addr = int(v)
				continue
			}
			v, err := strconv.ParseInt(tok, 16, 16)
			if err != nil {
				return nil, errors.Wrapf(err, "object file line %d: invalid byte token %q", line, tok)
			}
			if addr < 0 || addr > 0xFFFF {
				return nil, errors.Errorf("object file line %d: byte token %q before any address token", line, tok)
			}
			img.Set(addr, int(v))
			addr++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading object file")
	}
	return img, nil
}
