package jpeg

import "io"

// Segment is one marker-delimited unit of a JPEG file: its start
// offset in the original data, its Marker, and its payload. SOI, EOI
// and RST carry no payload. Every other marker's payload excludes the
// two-byte length field itself, per the JPEG length convention (the
// length counts itself but not the marker bytes). SOS is the one
// exception whose Payload is the scan header AND the entropy-coded
// body that follows it up to (not including) the next real marker:
// the length field on the wire only ever covers the header.
type Segment struct {
	Offset  int
	Marker  Marker
	Payload []byte
}

// ScanSegments walks a JPEG file into an ordered list of Segments. It
// does not interpret any payload grammar; that's left to the
// per-marker parsers in quant.go, huffman.go and this file's SOF/SOS
// helpers, called lazily by whoever needs them (format.go, secret.go).
func ScanSegments(data []byte) ([]Segment, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != _SOI {
		return nil, &ParseError{Offset: 0, Msg: "missing SOI marker"}
	}

	type markerPos struct {
		offset int
		marker Marker
	}
	markers := []markerPos{{0, Marker{Kind: KindSOI, Code: _SOI}}}

	i := 2
	for i < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		if i+1 >= len(data) {
			return nil, &ParseError{Offset: i, Msg: "truncated marker"}
		}
		b := data[i+1]
		switch {
		case b == 0x00:
			i += 2 // byte-stuffed 0xFF within entropy data, not a marker
			continue
		case b >= _RST0 && b <= _RST7:
			i += 2 // restart marker embedded in entropy data
			continue
		case b == 0xFF:
			i++ // fill byte, keep looking at the next byte
			continue
		}

		m := markerFromByte(b)
		markers = append(markers, markerPos{i, m})
		if m.Kind == KindEOI {
			i += 2
			goto scanned
		}
		if m.standalone() {
			i += 2
			continue
		}
		if i+4 > len(data) {
			return nil, &ParseError{Offset: i, Msg: "truncated segment length field"}
		}
		length := int(data[i+2])<<8 | int(data[i+3])
		if length < 2 {
			return nil, &ParseError{Offset: i, Msg: "segment length field below minimum"}
		}
		i += 2 + length
	}
scanned:

	if markers[len(markers)-1].marker.Kind != KindEOI {
		return nil, &ParseError{Offset: len(data), Msg: "missing EOI marker"}
	}

	segs := make([]Segment, 0, len(markers))
	for idx, mp := range markers {
		var payloadEnd int
		if idx+1 < len(markers) {
			payloadEnd = markers[idx+1].offset
		} else {
			payloadEnd = len(data)
		}

		var payload []byte
		if !mp.marker.standalone() {
			length := int(data[mp.offset+2])<<8 | int(data[mp.offset+3])
			hdrEnd := mp.offset + 2 + length
			if mp.marker.Kind == KindSOS {
				payload = data[mp.offset+4 : payloadEnd]
			} else {
				payload = data[mp.offset+4 : hdrEnd]
			}
		}
		segs = append(segs, Segment{Offset: mp.offset, Marker: mp.marker, Payload: payload})
	}
	return segs, nil
}

// serialize writes one segment back to the wire, recomputing its
// length field rather than trusting a stored one (SOS in particular
// must count only its header, never the entropy body that follows).
func (s Segment) serialize(w io.Writer) (int, error) {
	if s.Marker.standalone() {
		return w.Write([]byte{0xFF, s.Marker.Code})
	}
	if s.Marker.Kind == KindSOS {
		if len(s.Payload) < 1 {
			return 0, &ParseError{Offset: s.Offset, Msg: "empty SOS payload"}
		}
		ns := int(s.Payload[0])
		hdrLen := 1 + 2*ns + 3
		if hdrLen > len(s.Payload) {
			return 0, &ParseError{Offset: s.Offset, Msg: "SOS header longer than payload"}
		}
		length := hdrLen + 2
		buf := make([]byte, 0, 4+len(s.Payload))
		buf = append(buf, 0xFF, s.Marker.Code, byte(length>>8), byte(length))
		buf = append(buf, s.Payload...)
		return w.Write(buf)
	}
	length := len(s.Payload) + 2
	buf := make([]byte, 0, 4+len(s.Payload))
	buf = append(buf, 0xFF, s.Marker.Code, byte(length>>8), byte(length))
	buf = append(buf, s.Payload...)
	return w.Write(buf)
}

// SerializeSegments writes every segment back out in order, producing
// a byte-for-byte valid JPEG file (modulo any DHT/entropy rewriting
// the caller already applied to the Segment payloads in place).
func SerializeSegments(w io.Writer, segs []Segment) (int, error) {
	cw := newCumulativeWriter(w)
	for _, seg := range segs {
		if _, err := seg.serialize(cw); err != nil {
			return cw.count, jpgForwardError("SerializeSegments", err)
		}
	}
	return cw.result()
}

// FrameComponent is one component entry in a SOF segment.
type FrameComponent struct {
	ID         uint8
	HFactor    uint8
	VFactor    uint8
	QuantIndex uint8
}

// FrameHeader is the parsed form of a SOF0/SOF1/SOF2 payload.
type FrameHeader struct {
	Progressive bool
	Precision   uint8
	Height      uint16
	Width       uint16
	Components  []FrameComponent
}

func ParseSOF(m Marker, payload []byte) (FrameHeader, error) {
	if len(payload) < 6 {
		return FrameHeader{}, &ParseError{Msg: "SOF payload too short"}
	}
	nf := int(payload[5])
	if len(payload) < 6+3*nf {
		return FrameHeader{}, &ParseError{Msg: "SOF payload truncated component list"}
	}
	fh := FrameHeader{
		Progressive: m.Kind == KindSOF2,
		Precision:   payload[0],
		Height:      uint16(payload[1])<<8 | uint16(payload[2]),
		Width:       uint16(payload[3])<<8 | uint16(payload[4]),
		Components:  make([]FrameComponent, nf),
	}
	for i := 0; i < nf; i++ {
		b := payload[6+3*i:]
		fh.Components[i] = FrameComponent{
			ID:         b[0],
			HFactor:    b[1] >> 4,
			VFactor:    b[1] & 0x0F,
			QuantIndex: b[2],
		}
	}
	return fh, nil
}

// ScanComponent is one component entry in a SOS header.
type ScanComponent struct {
	ID           uint8
	DCTableIndex uint8
	ACTableIndex uint8
}

// ScanHeader is the parsed form of a SOS segment's header bytes
// (everything up to, but not including, the entropy-coded body).
type ScanHeader struct {
	Components    []ScanComponent
	SpectralStart uint8
	SpectralEnd   uint8 // already adjusted: raw wire byte + 1
	ApproxHigh    uint8
	ApproxLow     uint8
}

// ParseSOS parses a SOS segment's payload (header + body) and returns
// the header along with the remaining entropy-coded bytes.
func ParseSOS(payload []byte) (ScanHeader, []byte, error) {
	if len(payload) < 1 {
		return ScanHeader{}, nil, &ParseError{Msg: "empty SOS payload"}
	}
	ns := int(payload[0])
	if len(payload) < 1+2*ns+3 {
		return ScanHeader{}, nil, &ParseError{Msg: "SOS payload truncated"}
	}
	sh := ScanHeader{Components: make([]ScanComponent, ns)}
	for i := 0; i < ns; i++ {
		b := payload[1+2*i:]
		sh.Components[i] = ScanComponent{
			ID:           b[0],
			DCTableIndex: b[1] >> 4,
			ACTableIndex: b[1] & 0x0F,
		}
	}
	tail := payload[1+2*ns:]
	sh.SpectralStart = tail[0]
	sh.SpectralEnd = tail[1] + 1
	sh.ApproxHigh = tail[2] >> 4
	sh.ApproxLow = tail[2] & 0x0F
	body := payload[1+2*ns+3:]
	return sh, body, nil
}

// ParseDRI parses a DRI segment's payload into its restart interval,
// measured in MCUs (0 disables restart markers entirely).
func ParseDRI(payload []byte) (int, error) {
	if len(payload) != 2 {
		return 0, &ParseError{Msg: "DRI payload must be exactly 2 bytes"}
	}
	return int(payload[0])<<8 | int(payload[1]), nil
}
