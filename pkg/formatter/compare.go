package formatter

import "sort"

// CompareRecords orders two records of one block. Ordering keys, most
// significant first: tier, tier-specific depth rules, statement kind, first
// bound name, source. Depth rules run opposite ways: parent-relative imports
// go deepest first, current-directory imports shallowest first with the bare
// "./" ahead of everything in its tier.
func CompareRecords(a, b *Record, cmp *Comparator) int {
	if a.Group.Tier != b.Group.Tier {
		if a.Group.Tier < b.Group.Tier {
			return -1
		}
		return 1
	}

	switch a.Group.Tier {
	case TierParent:
		if a.Group.Depth != b.Group.Depth {
			if a.Group.Depth > b.Group.Depth {
				return -1
			}
			return 1
		}
	case TierCurrentDir:
		if a.Group.BareSlash != b.Group.BareSlash {
			if a.Group.BareSlash {
				return -1
			}
			return 1
		}
		if a.Group.Depth != b.Group.Depth {
			if a.Group.Depth < b.Group.Depth {
				return -1
			}
			return 1
		}
	}

	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}

	if d := cmp.Compare(a.sortName(), b.sortName()); d != 0 {
		return d
	}
	return cmp.CompareSource(a.Source, b.Source)
}

// SortRecords returns the records of a block in canonical order, each with
// its bindings re-sorted. Bindings are sorted before records so the ordering
// key (the first bound name) is independent of how the input happened to be
// arranged. The input is not mutated.
func SortRecords(recs []Record, cmp *Comparator) []Record {
	out := make([]Record, len(recs))
	copy(out, recs)
	for i := range out {
		out[i].Bindings = cmp.SortBindings(out[i].Kind, out[i].Bindings)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return CompareRecords(&out[i], &out[j], cmp) < 0
	})
	return out
}
