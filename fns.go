package jpeg

import (
	"math/big"
	"sort"
)

// bucketFNS holds the Factorial Number System digits for a permutation
// of one Huffman table's code-length bucket: the run of Values sharing
// one codeword length. Digit d_i (most significant first, d_0 omitted
// since its radix is always 1) has place value i!.
type bucketFNS struct {
	Digits []int
}

func factorial(n int) *big.Int {
	r := big.NewInt(1)
	for i := 2; i <= n; i++ {
		r.Mul(r, big.NewInt(int64(i)))
	}
	return r
}

// bucketFNSFromBig decomposes value into FNS digits for a bucket of n
// distinct items. value must be < n!.
func bucketFNSFromBig(value *big.Int, n int) (bucketFNS, error) {
	if n <= 0 {
		return bucketFNS{}, nil
	}
	v := new(big.Int).Set(value)
	digits := make([]int, 0, n-1)
	for base := n - 1; base >= 1; base-- {
		fac := factorial(base)
		d, m := new(big.Int), new(big.Int)
		d.QuoRem(v, fac, m)
		digits = append(digits, int(d.Int64()))
		v = m
	}
	return bucketFNS{Digits: digits}, nil
}

// BigInt reconstructs the integer this set of digits encodes.
func (f bucketFNS) BigInt() *big.Int {
	result := big.NewInt(0)
	n := len(f.Digits) + 1
	for i, d := range f.Digits {
		place := n - 1 - i
		term := new(big.Int).Mul(big.NewInt(int64(d)), factorial(place))
		result.Add(result, term)
	}
	return result
}

// Permutation expands the digits into a full permutation of [0,n).
func (f bucketFNS) Permutation() []int {
	n := len(f.Digits) + 1
	avail := make([]int, n)
	for i := range avail {
		avail[i] = i
	}
	perm := make([]int, 0, n)
	for _, d := range f.Digits {
		perm = append(perm, avail[d])
		avail = append(avail[:d], avail[d+1:]...)
	}
	perm = append(perm, avail...)
	return perm
}

func bucketFNSFromPermutation(perm []int) bucketFNS {
	n := len(perm)
	if n == 0 {
		return bucketFNS{}
	}
	avail := make([]int, n)
	for i := range avail {
		avail[i] = i
	}
	digits := make([]int, 0, n-1)
	for _, p := range perm[:n-1] {
		idx := -1
		for i, a := range avail {
			if a == p {
				idx = i
				break
			}
		}
		avail = append(avail[:idx], avail[idx+1:]...)
		digits = append(digits, idx)
	}
	return bucketFNS{Digits: digits}
}

// PermuteValues reorders one bucket's byte values in place according
// to this permutation, applied over the values sorted ascending (so
// the same digits always produce the same reordering regardless of
// the values' original order).
func (f bucketFNS) PermuteValues(values []byte) {
	if len(values) == 0 {
		return
	}
	perm := f.Permutation()
	sorted := append([]byte(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]byte, len(values))
	for i, p := range perm {
		out[i] = sorted[p]
	}
	copy(values, out)
}

// readBucketFNS recovers the FNS digits that describe how values has
// been permuted relative to its ascending sort order.
func readBucketFNS(values []byte) bucketFNS {
	if len(values) == 0 {
		return bucketFNS{}
	}
	sorted := append([]byte(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	perm := make([]int, len(values))
	for i, v := range values {
		perm[i] = sort.Search(len(sorted), func(j int) bool { return sorted[j] >= v })
	}
	return bucketFNSFromPermutation(perm)
}

// validBuckets returns the indices of sizes greater than 1: buckets of
// 0 or 1 distinct values carry no permutation information and take no
// part in the FNS composition.
func validBuckets(sizes []int) []int {
	var idx []int
	for i, s := range sizes {
		if s > 1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// basesDescending assigns each valid index (in ascending index order)
// a place-value base equal to the product of every weight to its
// right among the valid indices, so the first valid index carries the
// largest base (it is read/written first, as the most significant
// digit of the composition).
func basesDescending(validIdx []int, weight func(i int) *big.Int) map[int]*big.Int {
	bases := make(map[int]*big.Int, len(validIdx))
	maxBase := big.NewInt(1)
	for i := len(validIdx) - 1; i >= 0; i-- {
		idx := validIdx[i]
		bases[idx] = new(big.Int).Set(maxBase)
		maxBase.Mul(maxBase, weight(idx))
	}
	return bases
}

// tableMaxBase returns n_0! * n_1! * ... over one table's valid
// code-length buckets: the size of the permutation space that
// table's Sizes/Values carry.
func tableMaxBase(sizes [16]int) *big.Int {
	r := big.NewInt(1)
	for _, i := range validBuckets(sizes[:]) {
		r.Mul(r, factorial(sizes[i]))
	}
	return r
}

// decomposeTable splits value across one table's 16 code-length
// buckets, returning the bucketFNS for each (empty for trivial
// buckets that carry no information).
func decomposeTable(value *big.Int, sizes [16]int) ([16]bucketFNS, error) {
	var result [16]bucketFNS
	valid := validBuckets(sizes[:])
	bases := basesDescending(valid, func(i int) *big.Int { return factorial(sizes[i]) })
	v := new(big.Int).Set(value)
	for _, i := range valid {
		base := bases[i]
		d, m := new(big.Int), new(big.Int)
		d.QuoRem(v, base, m)
		v = m
		bf, err := bucketFNSFromBig(d, sizes[i])
		if err != nil {
			return result, err
		}
		result[i] = bf
	}
	return result, nil
}

// combineTable is decomposeTable's inverse: recompose the value one
// table's bucket digits encode.
func combineTable(buckets [16]bucketFNS, sizes [16]int) *big.Int {
	valid := validBuckets(sizes[:])
	bases := basesDescending(valid, func(i int) *big.Int { return factorial(sizes[i]) })
	result := big.NewInt(0)
	for _, i := range valid {
		term := new(big.Int).Mul(buckets[i].BigInt(), bases[i])
		result.Add(result, term)
	}
	return result
}

// Capacity returns the number of distinct integer values every Huffman
// table in tables (flattened across the whole file, in the order DHT
// segments and tables within them were encountered) can carry as a
// permutation: values from 0 up to, but not including, the result.
func Capacity(tables []HuffmanTable) *big.Int {
	r := big.NewInt(1)
	for _, t := range tables {
		if len(validBuckets(t.Sizes[:])) == 0 {
			continue
		}
		r.Mul(r, tableMaxBase(t.Sizes))
	}
	return r
}

// validTables returns the indices of tables that carry at least one
// non-trivial bucket.
func validTables(tables []HuffmanTable) []int {
	var idx []int
	for i, t := range tables {
		if len(validBuckets(t.Sizes[:])) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// EncodeSecret permutes every table's Values in place so that, read
// back in file order, they encode value. It returns SecretTooLarge if
// value does not fit in Capacity(tables).
func EncodeSecret(tables []HuffmanTable, value *big.Int) error {
	capacity := Capacity(tables)
	if value.Cmp(capacity) >= 0 {
		return &SecretTooLarge{NeedBytes: len(value.Bytes()), CapacityBytes: len(capacity.Bytes())}
	}

	valid := validTables(tables)
	bases := basesDescending(valid, func(i int) *big.Int { return tableMaxBase(tables[i].Sizes) })
	v := new(big.Int).Set(value)
	for _, i := range valid {
		base := bases[i]
		d, m := new(big.Int), new(big.Int)
		d.QuoRem(v, base, m)
		v = m
		buckets, err := decomposeTable(d, tables[i].Sizes)
		if err != nil {
			return err
		}
		applyTableBuckets(&tables[i], buckets)
	}
	return nil
}

// applyTableBuckets permutes one table's Values in place, bucket by
// bucket, per each bucket's code-length run in Sizes.
func applyTableBuckets(t *HuffmanTable, buckets [16]bucketFNS) {
	off := 0
	for i, size := range t.Sizes {
		buckets[i].PermuteValues(t.Values[off : off+size])
		off += size
	}
}

// ReadSecret recovers the integer value encoded across tables' current
// Values ordering.
func ReadSecret(tables []HuffmanTable) *big.Int {
	valid := validTables(tables)
	bases := basesDescending(valid, func(i int) *big.Int { return tableMaxBase(tables[i].Sizes) })
	result := big.NewInt(0)
	for _, i := range valid {
		var buckets [16]bucketFNS
		off := 0
		for b, size := range tables[i].Sizes {
			buckets[b] = readBucketFNS(tables[i].Values[off : off+size])
			off += size
		}
		term := new(big.Int).Mul(combineTable(buckets, tables[i].Sizes), bases[i])
		result.Add(result, term)
	}
	return result
}
