package jpeg

import "testing"

func TestMarkerFromByte(t *testing.T) {
	cases := []struct {
		b    byte
		kind Kind
	}{
		{_SOI, KindSOI},
		{_EOI, KindEOI},
		{_SOF0, KindSOF0},
		{_SOF2, KindSOF2},
		{_DHT, KindDHT},
		{_DQT, KindDQT},
		{_SOS, KindSOS},
		{_DRI, KindDRI},
		{_DNL, KindDNL},
		{_RST0, KindRST},
		{_RST7, KindRST},
		{0xE1, KindUnknown}, // APP1
	}
	for _, c := range cases {
		m := markerFromByte(c.b)
		if m.Kind != c.kind {
			t.Errorf("markerFromByte(0x%02x).Kind = %v, want %v", c.b, m.Kind, c.kind)
		}
		if m.Code != c.b {
			t.Errorf("markerFromByte(0x%02x).Code = 0x%02x, want 0x%02x", c.b, m.Code, c.b)
		}
	}
}

func TestMarkerStandalone(t *testing.T) {
	for _, m := range []Marker{
		{Kind: KindSOI, Code: _SOI},
		{Kind: KindEOI, Code: _EOI},
		{Kind: KindRST, Code: _RST0 + 3},
	} {
		if !m.standalone() {
			t.Errorf("%v.standalone() = false, want true", m)
		}
	}
	if (Marker{Kind: KindDHT, Code: _DHT}).standalone() {
		t.Errorf("DHT marker reported standalone")
	}
}

func TestRSTIndex(t *testing.T) {
	for i := uint8(0); i <= 7; i++ {
		m := Marker{Kind: KindRST, Code: _RST0 + i}
		if got := m.RSTIndex(); got != i {
			t.Errorf("RSTIndex() = %d, want %d", got, i)
		}
	}
}
