package yas6502

// ImageSize is the size of the 6502's address space.
const ImageSize = 0x10000

// Unwritten is the sentinel value of an Image cell that Pass 2 never wrote.
const Unwritten = -1

// Image is the assembled memory image: one entry per address, holding the
// byte value written there or Unwritten (-1) if nothing was ever emitted to
// that cell. Owned by Pass 2; readers (the listing and object-file writer)
// only consult it afterward.
type Image struct {
	cells [ImageSize]int
}

// NewImage returns an image with every cell set to Unwritten.
func NewImage() *Image {
	img := &Image{}
	img.Reset()
	return img
}

// Reset fills every cell with the Unwritten sentinel, as Pass 2 does at the
// start of a run.
func (img *Image) Reset() {
	for i := range img.cells {
		img.cells[i] = Unwritten
	}
}

// At returns the value at addr (0-0xFFFF), or Unwritten.
func (img *Image) At(addr int) int {
	return img.cells[addr]
}

// Set writes value (masked to a byte) at addr.
func (img *Image) Set(addr int, value int) {
	img.cells[addr] = value & 0xFF
}

// Written reports whether addr holds an emitted byte.
func (img *Image) Written(addr int) bool {
	return img.cells[addr] != Unwritten
}
