package jpeg

import "fmt"

// jpgForwardError wraps a lower-level error with the name of the
// operation that failed, the way Parse/Write do in the teacher.
func jpgForwardError(prefix string, err error) error {
	return fmt.Errorf(prefix+": %w", err)
}

// ParseError reports a malformed JPEG container: a bad marker sequence,
// a segment whose length field disagrees with the data available, or a
// payload that is too short for its grammar.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Msg)
}

// UnsupportedScan reports a scan this tool cannot transcode: anything
// outside the baseline spectral range [0,64).
type UnsupportedScan struct {
	Msg string
}

func (e *UnsupportedScan) Error() string {
	return "unsupported scan: " + e.Msg
}

// SecretTooLarge reports that the secret envelope does not fit in the
// permutation space the image's Huffman tables can carry.
type SecretTooLarge struct {
	NeedBytes     int
	CapacityBytes int
}

func (e *SecretTooLarge) Error() string {
	return fmt.Sprintf("secret needs ~%d bytes but image can only carry ~%d bytes",
		e.NeedBytes, e.CapacityBytes)
}

// BitstreamError reports a failure while walking the entropy-coded
// segment: an unmatched Huffman code, a truncated bit run, an
// out-of-range DC category, or a restart boundary with no restart
// marker at it.
type BitstreamError struct {
	Msg string
}

func (e *BitstreamError) Error() string {
	return "bitstream error: " + e.Msg
}

// IoError wraps an underlying I/O failure (reading the source file,
// writing the destination file) without re-stating its text.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}
