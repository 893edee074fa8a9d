package jpeg

// Kind identifies the type of a JPEG segment marker. RST and APPn/other
// reserved markers are not enumerated individually: RST carries its
// sequence number 0-7 and everything this tool doesn't interpret folds
// into Unknown, carrying the raw marker byte for round-tripping.
type Kind int

const (
	KindSOI Kind = iota
	KindEOI
	KindSOF0
	KindSOF1
	KindSOF2
	KindDHT
	KindDQT
	KindSOS
	KindDRI
	KindDNL
	KindRST
	KindUnknown
)

const (
	_SOF0 = 0xC0
	_SOF1 = 0xC1
	_SOF2 = 0xC2
	_DHT  = 0xC4
	_RST0 = 0xD0
	_RST7 = 0xD7
	_SOI  = 0xD8
	_EOI  = 0xD9
	_SOS  = 0xDA
	_DQT  = 0xDB
	_DNL  = 0xDC
	_DRI  = 0xDD
)

// Marker is the wire identity of one segment: a Kind plus, for the two
// kinds that carry extra information in the marker byte itself, that
// byte (RST's sequence number, or Unknown's raw code).
type Marker struct {
	Kind Kind
	Code uint8 // raw marker byte, always populated
}

func markerFromByte(b byte) Marker {
	switch {
	case b == _SOI:
		return Marker{Kind: KindSOI, Code: b}
	case b == _EOI:
		return Marker{Kind: KindEOI, Code: b}
	case b == _SOF0:
		return Marker{Kind: KindSOF0, Code: b}
	case b == _SOF1:
		return Marker{Kind: KindSOF1, Code: b}
	case b == _SOF2:
		return Marker{Kind: KindSOF2, Code: b}
	case b == _DHT:
		return Marker{Kind: KindDHT, Code: b}
	case b == _DQT:
		return Marker{Kind: KindDQT, Code: b}
	case b == _SOS:
		return Marker{Kind: KindSOS, Code: b}
	case b == _DRI:
		return Marker{Kind: KindDRI, Code: b}
	case b == _DNL:
		return Marker{Kind: KindDNL, Code: b}
	case b >= _RST0 && b <= _RST7:
		return Marker{Kind: KindRST, Code: b}
	default:
		return Marker{Kind: KindUnknown, Code: b}
	}
}

// standalone reports whether a marker carries no length field or
// payload of its own (SOI, EOI, and the RST markers embedded in the
// entropy stream).
func (m Marker) standalone() bool {
	return m.Kind == KindSOI || m.Kind == KindEOI || m.Kind == KindRST
}

// RSTIndex returns the restart marker's sequence number 0-7. Only
// valid when Kind == KindRST.
func (m Marker) RSTIndex() uint8 {
	return m.Code - _RST0
}

func (m Marker) String() string {
	switch m.Kind {
	case KindSOI:
		return "SOI"
	case KindEOI:
		return "EOI"
	case KindSOF0:
		return "SOF0"
	case KindSOF1:
		return "SOF1"
	case KindSOF2:
		return "SOF2"
	case KindDHT:
		return "DHT"
	case KindDQT:
		return "DQT"
	case KindSOS:
		return "SOS"
	case KindDRI:
		return "DRI"
	case KindDNL:
		return "DNL"
	case KindRST:
		return "RST"
	default:
		return "APPn/unknown"
	}
}
