package tansu

import "sort"

// Walk traverses the tree depth-first starting at this account, visiting
// every descendant including inactive ones. Children are visited in
// priority order, highest first, mirroring the resolution scan. The path
// slice passed to fn is relative to the walk root (empty for the root
// itself) and is reused across calls; copy it if retained. Returning false
// from fn stops the walk.
func (a *Account) Walk(fn func(path []string, acc *Account) bool) {
	a.walk(make([]string, 0, 8), fn)
}

func (a *Account) walk(path []string, fn func(path []string, acc *Account) bool) bool {
	if !fn(path, a) {
		return false
	}
	for i := len(a.children) - 1; i >= 0; i-- {
		child := a.children[i].account
		if !child.walk(append(path, child.name), fn) {
			return false
		}
	}
	return true
}

// EffectiveKeys returns the sorted union of all keys that Get can resolve
// from this account: its own keys plus, recursively, those of its active
// children.
func (a *Account) EffectiveKeys() []string {
	set := make(map[string]struct{})
	a.collectKeys(set)
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a *Account) collectKeys(set map[string]struct{}) {
	for k := range a.settings {
		set[k] = struct{}{}
	}
	for i := len(a.children) - 1; i >= 0; i-- {
		child := a.children[i].account
		if !child.active {
			continue
		}
		child.collectKeys(set)
	}
}
