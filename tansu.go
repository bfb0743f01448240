// Package tansu provides a layered key-value settings store.
//
// The name comes from traditional Japanese chests (箪笥) built from stacked
// drawers. Each drawer holds its own items, and together they form one piece
// of furniture - much like how an Account composes settings from multiple
// layers without flattening them.
//
// Key features:
//   - Heterogeneous Setting cells with safe typed extraction
//   - Account trees with priority-ordered, activity-filtered resolution
//   - Path-addressed access to shadowed or inactive layers
//   - Pluggable serialization via the codec and source packages
package tansu
