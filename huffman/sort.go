package huffman

import "golang.org/x/exp/constraints"

// quicksortByKey sorts s in place by the ascending value of key,
// mirroring the pivot-at-midpoint, converging-pointers partition of
// egz_sort_symbols_by_occurences / egz_sort_symbols_by_bits in the
// original implementation's symbols.c, generalized over the sort key
// with a type parameter instead of duplicating the same shape twice.
func quicksortByKey[T any, K constraints.Ordered](s []T, key func(T) K, left, right int) {
	if left > right {
		return
	}

	i, j := left, right
	pivot := key(s[(left+right)/2])

	for i <= j {
		for key(s[i]) < pivot && i < right {
			i++
		}
		for pivot < key(s[j]) && j > left {
			j--
		}
		if i <= j {
			s[i], s[j] = s[j], s[i]
			i++
			j--
		}
	}

	if i < right {
		quicksortByKey(s, key, i, right)
	}
	if left < j {
		quicksortByKey(s, key, left, j)
	}
}

// SortByOccurrence orders symbols ascending by occurrence count, the
// input order BuildTree requires.
func SortByOccurrence(symbols []*Symbol) {
	if len(symbols) < 2 {
		return
	}
	quicksortByKey(symbols, func(s *Symbol) uint64 { return s.Occurrences }, 0, len(symbols)-1)
}

// SortByBits orders symbols ascending by assigned code length. Used
// only by the debug/statistics report (egz_print_codes is always fed
// a by-bits-sorted list in the original), never by the encode/decode
// path itself.
func SortByBits(symbols []*Symbol) {
	if len(symbols) < 2 {
		return
	}
	quicksortByKey(symbols, func(s *Symbol) uint8 { return s.Bits }, 0, len(symbols)-1)
}
