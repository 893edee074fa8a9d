package jpeg

import "math/big"

// secretMagic marks an embedded payload so a read pass can tell a real
// secret from the noise an untouched image's Huffman tables already
// carry. There is no length prefix: everything after the magic is the
// secret. Because the magic's high byte (0xBE) is nonzero, converting
// the big integer back to bytes loses none of the envelope's bytes.
var secretMagic = [2]byte{0xBE, 0xEF}

func envelope(secret []byte) []byte {
	out := make([]byte, 0, 2+len(secret))
	out = append(out, secretMagic[0], secretMagic[1])
	out = append(out, secret...)
	return out
}

// gatherAllTables flattens every Huffman table defined across every
// DHT segment in segs, in file order. This is the same ordering
// fns.go's Capacity/EncodeSecret/ReadSecret use to index their
// top-level place values.
func gatherAllTables(segs []Segment) ([]HuffmanTable, error) {
	var tables []HuffmanTable
	for _, s := range segs {
		if s.Marker.Kind != KindDHT {
			continue
		}
		ts, err := ParseDHT(s.Payload)
		if err != nil {
			return nil, jpgForwardError("gatherAllTables", err)
		}
		tables = append(tables, ts...)
	}
	return tables, nil
}

// countTablesInDHT returns how many tables are packed into one DHT
// segment's payload, without fully parsing it, so WriteSecret can
// slice the flattened table list back into per-segment groups.
func countTablesInDHT(payload []byte) int {
	n, i := 0, 0
	for i < len(payload) {
		total := 0
		for k := 0; k < 16; k++ {
			total += int(payload[i+1+k])
		}
		i += 17 + total
		n++
	}
	return n
}

// validateDistinctValues enforces the one precondition the permutation
// engine depends on: no code-length bucket may contain the same byte
// value twice, or sorting it loses information a round trip needs.
func validateDistinctValues(tables []HuffmanTable) error {
	for _, t := range tables {
		off := 0
		for _, size := range t.Sizes {
			seen := make(map[byte]bool, size)
			for _, v := range t.Values[off : off+size] {
				if seen[v] {
					return &ParseError{Msg: "Huffman table has duplicate values within one code length"}
				}
				seen[v] = true
			}
			off += size
		}
	}
	return nil
}

// CapacityBytes reports the byte length of Capacity for the image's
// current Huffman tables: the approximate size of the largest envelope
// (secret plus the two-byte magic) they can carry.
func CapacityBytes(segs []Segment) (int, error) {
	tables, err := gatherAllTables(segs)
	if err != nil {
		return 0, err
	}
	return len(Capacity(tables).Bytes()), nil
}

// WriteSecret returns a new slice of segments with secret embedded:
// every DHT segment's Huffman tables permuted to encode the envelope,
// and every SOS segment's entropy stream re-encoded to match. warn, if
// non-nil, receives a message for every restart marker encountered out
// of its expected 0..7 sequence; pass nil to ignore it.
func WriteSecret(segs []Segment, secret []byte, warn func(format string, a ...interface{})) ([]Segment, error) {
	oldTables, err := gatherAllTables(segs)
	if err != nil {
		return nil, err
	}
	if err := validateDistinctValues(oldTables); err != nil {
		return nil, jpgForwardError("WriteSecret", err)
	}

	newTables := make([]HuffmanTable, len(oldTables))
	for i, t := range oldTables {
		nt := t
		nt.Values = append([]byte(nil), t.Values...)
		newTables[i] = nt
	}

	value := new(big.Int).SetBytes(envelope(secret))
	if err := EncodeSecret(newTables, value); err != nil {
		return nil, jpgForwardError("WriteSecret", err)
	}

	out := make([]Segment, len(segs))
	copy(out, segs)

	currentOld := make(map[tableKey]HuffmanTable)
	currentNew := make(map[tableKey]HuffmanTable)
	var frame FrameHeader
	haveFrame := false
	restartInterval := 0
	cursor := 0

	for i, s := range out {
		switch s.Marker.Kind {
		case KindDHT:
			n := countTablesInDHT(s.Payload)
			segNew := newTables[cursor : cursor+n]
			segOld := oldTables[cursor : cursor+n]
			cursor += n
			for j := range segNew {
				key := tableKey{class: segNew[j].Class, index: segNew[j].Index}
				currentOld[key] = segOld[j]
				currentNew[key] = segNew[j]
			}
			buf := make([]byte, 0, len(s.Payload))
			for _, t := range segNew {
				buf = append(buf, t.Bytes()...)
			}
			out[i].Payload = buf

		case KindSOF0, KindSOF1, KindSOF2:
			fh, err := ParseSOF(s.Marker, s.Payload)
			if err != nil {
				return nil, jpgForwardError("WriteSecret", err)
			}
			frame, haveFrame = fh, true

		case KindDRI:
			ri, err := ParseDRI(s.Payload)
			if err != nil {
				return nil, jpgForwardError("WriteSecret", err)
			}
			restartInterval = ri

		case KindSOS:
			if !haveFrame {
				return nil, &ParseError{Offset: s.Offset, Msg: "SOS segment before any SOF"}
			}
			scan, body, err := ParseSOS(s.Payload)
			if err != nil {
				return nil, jpgForwardError("WriteSecret", err)
			}
			if int(scan.SpectralStart) != 0 || int(scan.SpectralEnd) != 64 {
				return nil, &UnsupportedScan{Msg: "only the baseline spectral range [0,64) is supported"}
			}
			newBody, err := TranscodeEntropyStream(scan, frame, restartInterval, body, currentOld, currentNew, warn)
			if err != nil {
				return nil, jpgForwardError("WriteSecret", err)
			}
			hdrLen := 1 + 2*len(scan.Components) + 3
			newPayload := make([]byte, 0, hdrLen+len(newBody))
			newPayload = append(newPayload, s.Payload[:hdrLen]...)
			newPayload = append(newPayload, newBody...)
			out[i].Payload = newPayload
		}
	}
	return out, nil
}

// ReadSecretFromSegments recovers whatever the image's Huffman tables
// currently encode and reports whether it matches the magic envelope.
func ReadSecretFromSegments(segs []Segment) (secret []byte, found bool, err error) {
	tables, err := gatherAllTables(segs)
	if err != nil {
		return nil, false, err
	}
	data := ReadSecret(tables).Bytes()
	if len(data) < 2 || data[0] != secretMagic[0] || data[1] != secretMagic[1] {
		return nil, false, nil
	}
	return data[2:], true, nil
}
