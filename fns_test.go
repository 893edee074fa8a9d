package jpeg

import (
	"math/big"
	"testing"
)

func bigI(v int64) *big.Int { return big.NewInt(v) }

func TestBucketFNSDigits(t *testing.T) {
	bf, err := bucketFNSFromBig(bigI(5), 3)
	if err != nil {
		t.Fatalf("bucketFNSFromBig: %v", err)
	}
	want := []int{2, 1}
	if len(bf.Digits) != len(want) {
		t.Fatalf("digits = %v, want %v", bf.Digits, want)
	}
	for i := range want {
		if bf.Digits[i] != want[i] {
			t.Fatalf("digits = %v, want %v", bf.Digits, want)
		}
	}

	bf0, err := bucketFNSFromBig(bigI(0), 2)
	if err != nil {
		t.Fatalf("bucketFNSFromBig: %v", err)
	}
	if len(bf0.Digits) != 1 || bf0.Digits[0] != 0 {
		t.Fatalf("digits(0,2) = %v, want [0]", bf0.Digits)
	}
}

func TestBucketFNSPermutation(t *testing.T) {
	bf3, _ := bucketFNSFromBig(bigI(3), 3)
	if got := bf3.Permutation(); !intsEqual(got, []int{1, 2, 0}) {
		t.Errorf("permutation(3) of n=3 = %v, want [1 2 0]", got)
	}
	bf5, _ := bucketFNSFromBig(bigI(5), 3)
	if got := bf5.Permutation(); !intsEqual(got, []int{2, 1, 0}) {
		t.Errorf("permutation(5) of n=3 = %v, want [2 1 0]", got)
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPermuteValuesRoundTrip(t *testing.T) {
	bf3, _ := bucketFNSFromBig(bigI(3), 3)
	values := []byte{3, 5, 10}
	bf3.PermuteValues(values)
	want := []byte{5, 10, 3}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("PermuteValues result = %v, want %v", values, want)
		}
	}

	back := readBucketFNS(values)
	if got := back.BigInt(); got.Cmp(bigI(3)) != 0 {
		t.Errorf("readBucketFNS(%v).BigInt() = %v, want 3", values, got)
	}
}

func TestDecomposeTableTwoGroups(t *testing.T) {
	var sizes [16]int
	sizes[0], sizes[1] = 2, 3
	buckets, err := decomposeTable(bigI(10), sizes)
	if err != nil {
		t.Fatalf("decomposeTable: %v", err)
	}
	if !intsEqual(buckets[0].Digits, []int{1}) {
		t.Errorf("group 0 digits = %v, want [1]", buckets[0].Digits)
	}
	if !intsEqual(buckets[1].Digits, []int{2, 0}) {
		t.Errorf("group 1 digits = %v, want [2 0]", buckets[1].Digits)
	}

	combined := combineTable(buckets, sizes)
	if combined.Cmp(bigI(10)) != 0 {
		t.Errorf("combineTable round trip = %v, want 10", combined)
	}
}

func TestDecomposeTableSingleValidBucket(t *testing.T) {
	var sizes [16]int
	sizes[0], sizes[1] = 0, 6
	buckets, err := decomposeTable(bigI(679), sizes)
	if err != nil {
		t.Fatalf("decomposeTable: %v", err)
	}
	if len(buckets[0].Digits) != 0 {
		t.Errorf("trivial group carries digits: %v", buckets[0].Digits)
	}
	if combineTable(buckets, sizes).Cmp(bigI(679)) != 0 {
		t.Errorf("value not fully carried by the single valid bucket")
	}
}

func TestCapacityAndEncodeDecodeSecret(t *testing.T) {
	mkTable := func(sizes [16]int, n int) HuffmanTable {
		values := make([]byte, n)
		for i := range values {
			values[i] = byte(i)
		}
		return HuffmanTable{Sizes: sizes, Values: values}
	}
	var sz1, sz2 [16]int
	sz1[0], sz1[1] = 3, 2
	sz2[2] = 4
	tables := []HuffmanTable{mkTable(sz1, 5), mkTable(sz2, 4)}

	capacity := Capacity(tables)
	if capacity.Sign() <= 0 {
		t.Fatalf("Capacity() = %v, want > 0", capacity)
	}

	target := new(big.Int).Sub(capacity, bigI(1))
	if err := EncodeSecret(tables, target); err != nil {
		t.Fatalf("EncodeSecret: %v", err)
	}
	if got := ReadSecret(tables); got.Cmp(target) != 0 {
		t.Fatalf("ReadSecret() = %v, want %v", got, target)
	}
}

func TestEncodeSecretTooLarge(t *testing.T) {
	var sizes [16]int
	sizes[0] = 2
	tables := []HuffmanTable{{Sizes: sizes, Values: []byte{0, 1}}}
	capacity := Capacity(tables)
	var target SecretTooLarge
	err := EncodeSecret(tables, capacity)
	if err == nil {
		t.Fatal("expected SecretTooLarge")
	}
	if e, ok := err.(*SecretTooLarge); !ok {
		t.Fatalf("err = %v (%T), want *SecretTooLarge", err, err)
	} else {
		target = *e
		_ = target
	}
}
