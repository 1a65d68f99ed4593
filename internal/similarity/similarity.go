// Package similarity scores how structurally alike two trees are,
// independent of the tree-edit-distance mapping used for diffing.
package similarity

import "github.com/pagereplay/treediff/internal/domtree"

// Compare returns the percentage of second's root-to-node paths that
// also appear (by structure/content, ignoring cpid) somewhere in
// first, counted level by level with multiplicity.
func Compare(first, second *domtree.Tree) float64 {
	commonSize := numCommonPaths(first, second)
	targetSize := second.Root().NumNodes()
	if targetSize == 0 {
		return 0
	}
	return float64(commonSize) * 100 / float64(targetSize)
}

// numCommonPaths walks both trees breadth-first level by level,
// intersecting the multiset of paths at each level (by Path.Key) and
// stopping once a level has no overlap: a path can only recur among
// the next level's extensions of paths that themselves matched.
func numCommonPaths(first, second *domtree.Tree) int {
	totalCommon := 0
	firstPaths := []*domtree.Path{first.Root().GetPath()}
	secondPaths := []*domtree.Path{second.Root().GetPath()}

	for {
		firstPaths, secondPaths = intersectByKey(firstPaths, secondPaths)
		interSize := len(firstPaths)
		if interSize == 0 {
			break
		}
		totalCommon += interSize

		var nextFirst, nextSecond []*domtree.Path
		for _, p := range firstPaths {
			nextFirst = append(nextFirst, p.NextLevelPaths()...)
		}
		for _, p := range secondPaths {
			nextSecond = append(nextSecond, p.NextLevelPaths()...)
		}
		firstPaths, secondPaths = nextFirst, nextSecond
	}
	return totalCommon
}

// intersectByKey returns, for each side, only the paths whose Key
// also occurs on the other side, preserving multiplicity up to the
// minimum count on either side (a counter intersection, not a set
// intersection).
func intersectByKey(first, second []*domtree.Path) ([]*domtree.Path, []*domtree.Path) {
	firstCounts := countByKey(first)
	secondCounts := countByKey(second)

	limit := make(map[string]int, len(firstCounts))
	for k, fc := range firstCounts {
		if sc, ok := secondCounts[k]; ok {
			if fc < sc {
				limit[k] = fc
			} else {
				limit[k] = sc
			}
		}
	}

	keepFirst := keepUpToLimit(first, limit)
	keepSecond := keepUpToLimit(second, limit)
	return keepFirst, keepSecond
}

func countByKey(paths []*domtree.Path) map[string]int {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[p.Key()]++
	}
	return counts
}

func keepUpToLimit(paths []*domtree.Path, limit map[string]int) []*domtree.Path {
	remaining := make(map[string]int, len(limit))
	for k, v := range limit {
		remaining[k] = v
	}
	var kept []*domtree.Path
	for _, p := range paths {
		k := p.Key()
		if remaining[k] > 0 {
			kept = append(kept, p)
			remaining[k]--
		}
	}
	return kept
}
