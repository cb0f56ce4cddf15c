package similarity

// searchAfter returns the index just past the last occurrence of x in the
// ascending slice adj. Callers only pass an x that is present (u is always
// in the adjacency of its neighbor v). For an absent x the result is the
// index of the first element greater than x, which may be len(adj); it is
// never out of range for slicing.
func searchAfter(adj []uint32, x uint32) int {
	lo, hi := 0, len(adj)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if adj[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
