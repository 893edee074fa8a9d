package jpeg

// tableKey identifies one Huffman table slot: its class (DC=0, AC=1)
// and its four-bit destination index.
type tableKey struct {
	class uint8
	index uint8
}

// TranscodeEntropyStream walks one scan's entropy-coded body MCU by
// MCU, decoding each coefficient under oldTables and re-encoding it
// under newTables, byte-stuffing the result the same way the source
// was stuffed. restartInterval is the DRI value in effect for this
// scan (0 disables restart markers). warn, if non-nil, is called with
// a description of any restart marker whose sequence number does not
// follow the expected 0..7 cycle; the marker is still passed through
// unchanged regardless, since the byte-exactness invariant forbids
// "fixing" it.
func TranscodeEntropyStream(scan ScanHeader, frame FrameHeader, restartInterval int, body []byte, oldTables, newTables map[tableKey]HuffmanTable, warn func(format string, a ...interface{})) ([]byte, error) {
	codecs := make(map[tableKey]*pairedCodec, len(oldTables))
	for k, oldT := range oldTables {
		newT, ok := newTables[k]
		if !ok {
			return nil, &BitstreamError{Msg: "missing replacement Huffman table"}
		}
		codecs[k] = newPairedCodec(oldT, newT)
	}

	type component struct {
		h, v   int
		dcKey  tableKey
		acKey  tableKey
	}
	comps := make([]component, len(scan.Components))
	hMax, vMax := 1, 1
	for i, sc := range scan.Components {
		fc, err := findFrameComponent(frame, sc.ID)
		if err != nil {
			return nil, err
		}
		comps[i] = component{
			h:     int(fc.HFactor),
			v:     int(fc.VFactor),
			dcKey: tableKey{class: 0, index: sc.DCTableIndex},
			acKey: tableKey{class: 1, index: sc.ACTableIndex},
		}
		if int(fc.HFactor) > hMax {
			hMax = int(fc.HFactor)
		}
		if int(fc.VFactor) > vMax {
			vMax = int(fc.VFactor)
		}
	}

	mcuCols := ceilDiv(int(frame.Width), hMax*8)
	mcuRows := ceilDiv(int(frame.Height), vMax*8)

	rw := newReadWriter(destuff(body))
	markerPositions := make(map[int]bool)

	mcusLeft := restartInterval
	eobRun := 0
	expectedRST := uint8(0)

	for mcuY := 0; mcuY < mcuRows; mcuY++ {
		for mcuX := 0; mcuX < mcuCols; mcuX++ {
			if restartInterval > 0 {
				if mcusLeft == 0 {
					rw.byteAlignRead()
					rw.byteAlignWrite()
					pos := len(rw.out)
					ff, err := rw.readRawByte()
					if err != nil {
						return nil, err
					}
					code, err := rw.readRawByte()
					if err != nil {
						return nil, err
					}
					if ff != 0xFF || code < _RST0 || code > _RST7 {
						return nil, &BitstreamError{Msg: "expected restart marker at restart boundary"}
					}
					if warn != nil && code-_RST0 != expectedRST {
						warn("restart marker out of sequence: got RST%d, expected RST%d", code-_RST0, expectedRST)
					}
					expectedRST = (code - _RST0 + 1) % 8
					markerPositions[pos] = true
					rw.writeRawByte(ff)
					rw.writeRawByte(code)

					eobRun = 0
					mcusLeft = restartInterval
				}
				mcusLeft--
			}

			for _, c := range comps {
				codec, ok := codecs[c.dcKey]
				if !ok {
					return nil, &BitstreamError{Msg: "unknown DC table index"}
				}
				acCodec, ok := codecs[c.acKey]
				if !ok {
					return nil, &BitstreamError{Msg: "unknown AC table index"}
				}
				rw.setTables(codec, acCodec)
				for b := 0; b < c.h*c.v; b++ {
					if err := decodeBlock(rw, int(scan.SpectralStart), int(scan.SpectralEnd), &eobRun); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	return restuff(rw.Output(), markerPositions), nil
}

func findFrameComponent(frame FrameHeader, id uint8) (FrameComponent, error) {
	for _, c := range frame.Components {
		if c.ID == id {
			return c, nil
		}
	}
	return FrameComponent{}, &ParseError{Msg: "scan references unknown frame component"}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// decodeBlock walks one 8x8 block's coefficients in spectral range
// [ss,se), transcoding the DC term (if ss==0) and the AC run-length
// coded terms, honoring ZRL and EOB-run carried across blocks.
func decodeBlock(rw *readWriter, ss, se int, eobRun *int) error {
	if ss == 0 {
		size, err := rw.ReadHuffmanDC()
		if err != nil {
			return err
		}
		switch {
		case size == 0:
		case size >= 1 && size <= 11:
			if _, err := rw.ReadBits(int(size)); err != nil {
				return err
			}
		default:
			return &BitstreamError{Msg: "DC magnitude category out of range"}
		}
	}

	k := ss
	if k < 1 {
		k = 1
	}
	if k < se && *eobRun > 0 {
		*eobRun--
		return nil
	}
	for k < se {
		rs, err := rw.ReadHuffmanAC()
		if err != nil {
			return err
		}
		r := int(rs >> 4)
		s := int(rs & 0x0F)
		if s == 0 {
			if r == 15 {
				k += 16
				continue
			}
			run := (1 << uint(r)) - 1
			if r > 0 {
				extra, err := rw.ReadBits(r)
				if err != nil {
					return err
				}
				run += int(extra)
			}
			*eobRun = run
			break
		}
		k += r
		if k >= se {
			break
		}
		if _, err := rw.ReadBits(s); err != nil {
			return err
		}
		k++
	}
	return nil
}
