package jpeg

import "testing"

func TestParseDQT8Bit(t *testing.T) {
	payload := make([]byte, 1+64)
	payload[0] = 0x00 // precision 0, index 0
	for i := 0; i < 64; i++ {
		payload[1+i] = byte(i + 1)
	}
	tables, err := ParseDQT(payload)
	if err != nil {
		t.Fatalf("ParseDQT: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	tb := tables[0]
	if tb.Precision != 0 || tb.Index != 0 {
		t.Errorf("precision/index = %d/%d, want 0/0", tb.Precision, tb.Index)
	}
	for i := 0; i < 64; i++ {
		if tb.Values[i] != uint16(i+1) {
			t.Fatalf("Values[%d] = %d, want %d", i, tb.Values[i], i+1)
		}
	}
}

func TestParseDQT16Bit(t *testing.T) {
	payload := make([]byte, 1+128)
	payload[0] = 0x13 // precision 1, index 3
	for i := 0; i < 64; i++ {
		payload[1+2*i] = 0x01
		payload[1+2*i+1] = byte(i)
	}
	tables, err := ParseDQT(payload)
	if err != nil {
		t.Fatalf("ParseDQT: %v", err)
	}
	tb := tables[0]
	if tb.Precision != 1 || tb.Index != 3 {
		t.Errorf("precision/index = %d/%d, want 1/3", tb.Precision, tb.Index)
	}
	if tb.Values[0] != 0x0100 || tb.Values[63] != 0x013F {
		t.Errorf("Values[0]/Values[63] = 0x%04x/0x%04x", tb.Values[0], tb.Values[63])
	}
}

func TestParseDQTTruncated(t *testing.T) {
	if _, err := ParseDQT([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated DQT payload")
	}
}

func TestParseDQTMultipleTables(t *testing.T) {
	payload := make([]byte, 2*(1+64))
	payload[0] = 0x00
	payload[1+64] = 0x01
	tables, err := ParseDQT(payload)
	if err != nil {
		t.Fatalf("ParseDQT: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if tables[1].Index != 1 {
		t.Errorf("second table index = %d, want 1", tables[1].Index)
	}
}
