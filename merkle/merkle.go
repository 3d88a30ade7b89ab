// Package merkle computes the bottom-up, duplicate-last-on-odd Merkle root
// spec.md §4.F defines over a list of transaction hashes.
package merkle

import "github.com/epfer-chain/sidechain/hashutil"

// Root returns the Merkle root of leaves. An empty list roots to "".
func Root(leaves []string) string {
	if len(leaves) == 0 {
		return ""
	}
	level := make([]string, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashutil.Pair(left, right))
		}
		level = next
	}
	return level[0]
}
