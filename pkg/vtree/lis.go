package vtree

// lis marks in f.keep the new-window positions whose matched old
// indices form a longest increasing subsequence. Positions with no old
// match (-1 entries) never participate. Children in the LIS are already
// in correct relative order and need no move; every other matched child
// gets exactly one MoveChild, so move count is n - |LIS|.
//
// Patience sort with binary search, O(n log n). When several subsequences
// tie for longest, whichever the reconstruction lands on is fine; only
// the move count is contractual.
func (f *frame) lis() {
	n := len(f.matched)
	for i := 0; i < n; i++ {
		f.keep = append(f.keep, false)
		f.links = append(f.links, -1)
	}

	for j, v := range f.matched {
		if v < 0 {
			continue
		}
		// First pile whose tail is >= v. Old indices are distinct, so
		// strict vs non-strict increase makes no difference.
		lo, hi := 0, len(f.tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if f.tails[mid] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo == len(f.tails) {
			f.tails = append(f.tails, v)
			f.tailsPos = append(f.tailsPos, j)
		} else {
			f.tails[lo] = v
			f.tailsPos[lo] = j
		}
		if lo > 0 {
			f.links[j] = f.tailsPos[lo-1]
		}
	}

	if len(f.tails) == 0 {
		return
	}
	for j := f.tailsPos[len(f.tails)-1]; j >= 0; j = f.links[j] {
		f.keep[j] = true
	}
}
