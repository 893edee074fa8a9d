// Package jpeg implements a JPEG container scanner/rewriter whose
// purpose is steganographic: it hides an arbitrary byte secret inside
// a JPEG's DHT Huffman tables by permuting each table's symbol-to-
// codeword assignment, re-encoding the entropy-coded scan data to
// match, without touching a single pixel value.
package jpeg

import (
	"fmt"
	"io"
	"os"
)

// cumulativeWriter tracks the total byte count and first error across
// a series of writes, so callers can fmt.Fprintf into it repeatedly
// and check the outcome once at the end.
type cumulativeWriter struct {
	w     io.Writer
	count int
	err   error
}

func newCumulativeWriter(w io.Writer) *cumulativeWriter {
	return &cumulativeWriter{w: w}
}

func (cw *cumulativeWriter) format(f string, a ...interface{}) {
	if cw.err != nil {
		return
	}
	n, err := fmt.Fprintf(cw.w, f, a...)
	cw.err = err
	cw.count += n
}

func (cw *cumulativeWriter) Write(v []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(v)
	cw.err = err
	cw.count += n
	return n, err
}

func (cw *cumulativeWriter) result() (int, error) {
	return cw.count, cw.err
}

// Control carries the verbosity/diagnostic flags: Verbose shapes Parse,
// and Warn shapes Desc.WriteSecret. The package-level WriteSecret and
// ReadSecretFromSegments do not read it; they are pure functions of the
// segment list (plus WriteSecret's warn callback).
type Control struct {
	Verbose bool // print the segment list once scanning completes
	Warn    bool // warn about malformed restart-marker sequencing
}

// Desc is the parsed form of one JPEG file: its segments in file
// order, plus the Control that governed parsing.
type Desc struct {
	Segments []Segment
	Control
}

// Parse scans data into a Desc. It does not interpret every segment's
// payload grammar eagerly -- SOF/SOS/DHT/DQT are parsed lazily by the
// functions in segment.go, quant.go and huffman.go -- so a file this
// tool doesn't otherwise understand (unrecognized APPn markers, for
// instance) still round-trips.
func Parse(data []byte, toDo *Control) (*Desc, error) {
	segs, err := ScanSegments(data)
	if err != nil {
		return nil, jpgForwardError("Parse", err)
	}
	jpg := &Desc{Segments: segs}
	if toDo != nil {
		jpg.Control = *toDo
	}
	if jpg.Verbose {
		for _, s := range segs {
			fmt.Printf("offset %6d: %s (%d bytes)\n", s.Offset, s.Marker, len(s.Payload))
		}
	}
	return jpg, nil
}

// Read loads path and parses it as a JPEG file.
func Read(path string, toDo *Control) (*Desc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jpgForwardError("Read", &IoError{Op: "ReadFile", Err: err})
	}
	return Parse(data, toDo)
}

// Generate serializes jpg's current segments back to a byte slice.
func (jpg *Desc) Generate() ([]byte, error) {
	var buf []byte
	w := &sliceWriter{buf: &buf}
	if _, err := SerializeSegments(w, jpg.Segments); err != nil {
		return nil, jpgForwardError("Generate", err)
	}
	return buf, nil
}

// Write serializes jpg and saves it to path.
func (jpg *Desc) Write(path string) (n int, err error) {
	defer func() {
		if err != nil {
			err = jpgForwardError("Write", err)
		}
	}()
	data, err := jpg.Generate()
	if err != nil {
		return 0, err
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return 0, &IoError{Op: "WriteFile", Err: err}
	}
	return len(data), nil
}

// sliceWriter is the minimal io.Writer a []byte builder needs; avoids
// pulling in bytes.Buffer for a single append loop.
type sliceWriter struct{ buf *[]byte }

func (s *sliceWriter) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}

// Capacity reports the approximate size, in bytes, of the largest
// envelope (secret plus the two-byte magic) jpg's current Huffman
// tables can carry; see CapacityBytes.
func (jpg *Desc) Capacity() (int, error) {
	return CapacityBytes(jpg.Segments)
}

// WriteSecret embeds secret into jpg's Huffman tables and re-encodes
// the affected scans, returning a new Desc (jpg itself is untouched).
// When jpg.Control.Warn is set, out-of-sequence restart markers are
// reported to stderr as they're encountered; they are still passed
// through unchanged.
func (jpg *Desc) WriteSecret(secret []byte) (*Desc, error) {
	var warn func(string, ...interface{})
	if jpg.Control.Warn {
		warn = func(f string, a ...interface{}) {
			fmt.Fprintf(os.Stderr, "jpeg: "+f+"\n", a...)
		}
	}
	segs, err := WriteSecret(jpg.Segments, secret, warn)
	if err != nil {
		return nil, jpgForwardError("WriteSecret", err)
	}
	return &Desc{Segments: segs, Control: jpg.Control}, nil
}

// ReadSecret recovers whatever secret jpg's Huffman tables currently
// encode, if any.
func (jpg *Desc) ReadSecret() (secret []byte, found bool, err error) {
	return ReadSecretFromSegments(jpg.Segments)
}
