package jpeg

import (
	"fmt"
	"io"
)

// FormatSegments writes one summary line per segment in jpg, in file
// order: its offset, marker name and payload size.
func (jpg *Desc) FormatSegments(w io.Writer) (n int, err error) {
	cw := newCumulativeWriter(w)
	for _, s := range jpg.Segments {
		cw.format("offset %6d: %-6s %6d bytes\n", s.Offset, s.Marker, len(s.Payload))
	}
	return cw.result()
}

// FormatFrames writes the frame header(s) found in jpg: precision,
// dimensions, whether the encoding is progressive, and each component's
// sampling factors and quantization table index.
func (jpg *Desc) FormatFrames(w io.Writer) (n int, err error) {
	cw := newCumulativeWriter(w)
	for _, s := range jpg.Segments {
		switch s.Marker.Kind {
		case KindSOF0, KindSOF1, KindSOF2:
			fh, err := ParseSOF(s.Marker, s.Payload)
			if err != nil {
				return cw.count, jpgForwardError("FormatFrames", err)
			}
			mode := "sequential"
			if fh.Progressive {
				mode = "progressive"
			}
			cw.format("Frame (%s): %dx%d, %d-bit\n", mode, fh.Width, fh.Height, fh.Precision)
			for _, c := range fh.Components {
				cw.format("  component %d: sampling %dx%d, quant table %d\n",
					c.ID, c.HFactor, c.VFactor, c.QuantIndex)
			}
		}
	}
	return cw.result()
}

// FormatQuantTables writes every DQT segment's tables.
func (jpg *Desc) FormatQuantTables(w io.Writer) (n int, err error) {
	cw := newCumulativeWriter(w)
	for _, s := range jpg.Segments {
		if s.Marker.Kind != KindDQT {
			continue
		}
		tables, err := ParseDQT(s.Payload)
		if err != nil {
			return cw.count, jpgForwardError("FormatQuantTables", err)
		}
		for _, t := range tables {
			cw.format("Quantization table %d (%d-bit)\n", t.Index, 8+8*int(t.Precision))
			for row := 0; row < 8; row++ {
				cw.format(" ")
				for col := 0; col < 8; col++ {
					cw.format(" %4d", t.Values[row*8+col])
				}
				cw.format("\n")
			}
		}
	}
	return cw.result()
}

// FormatHuffmanTables writes every DHT segment's tables: class,
// destination index, and the symbol assigned to each codeword.
func (jpg *Desc) FormatHuffmanTables(w io.Writer) (n int, err error) {
	cw := newCumulativeWriter(w)
	for _, s := range jpg.Segments {
		if s.Marker.Kind != KindDHT {
			continue
		}
		tables, err := ParseDHT(s.Payload)
		if err != nil {
			return cw.count, jpgForwardError("FormatHuffmanTables", err)
		}
		for _, t := range tables {
			class := "DC"
			if t.Class == 1 {
				class = "AC"
			}
			cw.format("Huffman table %s destination %d\n", class, t.Index)
			for _, e := range BuildCodeTable(t.Sizes, t.Values) {
				cw.format("  %0*b -> 0x%02x\n", e.Length, e.Code, e.Symbol)
			}
		}
	}
	return cw.result()
}

// FormatCapacity writes a one-line report of how large a secret jpg's
// current Huffman tables can carry.
func (jpg *Desc) FormatCapacity(w io.Writer) (n int, err error) {
	capacity, err := jpg.Capacity()
	if err != nil {
		return 0, jpgForwardError("FormatCapacity", err)
	}
	return fmt.Fprintf(w, "Maximum message length: %d bytes\n", capacity)
}

// Dump writes the full debug report used by the command-line tool's
// default (no subcommand) mode: segment list, frame headers,
// quantization and Huffman tables, and the secret capacity.
func (jpg *Desc) Dump(w io.Writer) (n int, err error) {
	cw := newCumulativeWriter(w)
	if _, err := jpg.FormatSegments(cw); err != nil {
		return cw.count, err
	}
	if _, err := jpg.FormatFrames(cw); err != nil {
		return cw.count, err
	}
	if _, err := jpg.FormatQuantTables(cw); err != nil {
		return cw.count, err
	}
	if _, err := jpg.FormatHuffmanTables(cw); err != nil {
		return cw.count, err
	}
	if _, err := jpg.FormatCapacity(cw); err != nil {
		return cw.count, err
	}
	return cw.result()
}
