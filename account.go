package tansu

// Validity is an out-of-band annotation attached to each child slot. Callers
// use it to record whether a child has passed an external consistency check.
// It never gates resolution; only the child's active flag does.
type Validity int8

const (
	// ValidityUnchecked marks a child that has not been checked yet.
	ValidityUnchecked Validity = iota

	// ValidityValid marks a child confirmed consistent.
	ValidityValid

	// ValidityInvalid marks a child confirmed inconsistent.
	ValidityInvalid
)

// String returns the textual form used by the codec wire format.
func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "unchecked"
	}
}

// ParseValidity converts the textual form back to a Validity.
// Unrecognized text reports ok=false.
func ParseValidity(s string) (Validity, bool) {
	switch s {
	case "valid":
		return ValidityValid, true
	case "invalid":
		return ValidityInvalid, true
	case "unchecked", "":
		return ValidityUnchecked, true
	}
	return ValidityUnchecked, false
}

// childSlot pairs a child account with its validity marker. Slot order
// encodes priority: later slots take precedence during resolution.
type childSlot struct {
	account  *Account
	validity Validity
}

// Account is a named, possibly-inactive settings layer. It holds a direct
// mapping of keys to Setting cells and an ordered list of child Accounts,
// each a lower-priority layer. An Account exclusively owns its settings and
// its children; do not push the same *Account under two parents.
//
// All operations are pure synchronous traversals or mutations with no
// internal locking. Callers sharing a tree across goroutines must serialize
// access to the subtree root themselves.
type Account struct {
	name     string
	active   bool
	settings map[string]Setting
	children []childSlot
}

// Option configures an Account at construction.
type Option func(*Account)

// WithActive sets the initial activity flag. Accounts are active by default.
func WithActive(active bool) Option {
	return func(a *Account) {
		a.active = active
	}
}

// WithSettings seeds the account with initial settings. The map is copied;
// the caller's map remains independent.
func WithSettings(settings map[string]Setting) Option {
	return func(a *Account) {
		for k, s := range settings {
			a.settings[k] = s
		}
	}
}

// WithChild appends a child account with the given validity marker. Like
// PushChild, each successive child takes priority over the previous ones.
func WithChild(c *Account, v Validity) Option {
	return func(a *Account) {
		a.children = append(a.children, childSlot{account: c, validity: v})
	}
}

// New creates an Account. Without options it is active and empty.
//
// Example:
//
//	acc := tansu.New("root",
//		tansu.WithSettings(map[string]tansu.Setting{"lines": tansu.Wrap(3)}),
//		tansu.WithChild(tansu.New("defaults"), tansu.ValidityUnchecked),
//	)
func New(name string, opts ...Option) *Account {
	a := &Account{
		name:     name,
		active:   true,
		settings: make(map[string]Setting),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the account's name. Names identify children during
// path-addressed access; they need only be unique among siblings.
func (a *Account) Name() string {
	return a.name
}

// Rename sets a new name and returns the previous one.
func (a *Account) Rename(name string) string {
	prev := a.name
	a.name = name
	return prev
}

// Active reports the account's own activity flag.
func (a *Account) Active() bool {
	return a.active
}

// SetActive flips the account's own activity flag and returns the previous
// state. Children's flags are untouched.
func (a *Account) SetActive(active bool) bool {
	prev := a.active
	a.active = active
	return prev
}

// Insert adds or overwrites a settings entry at this account only. It
// returns the previous cell and whether one existed. Children are
// unaffected.
func (a *Account) Insert(key string, s Setting) (Setting, bool) {
	prev, ok := a.settings[key]
	a.settings[key] = s
	return prev, ok
}

// Remove deletes a settings entry from this account only, returning the
// removed cell if one existed.
func (a *Account) Remove(key string) (Setting, bool) {
	prev, ok := a.settings[key]
	if ok {
		delete(a.settings, key)
	}
	return prev, ok
}

// Local returns this account's own cell for key, without cascading into
// children.
func (a *Account) Local(key string) (Setting, bool) {
	s, ok := a.settings[key]
	return s, ok
}

// Contains reports whether this account's own settings define key.
func (a *Account) Contains(key string) bool {
	_, ok := a.settings[key]
	return ok
}

// Keys returns this account's own setting keys in unspecified order.
func (a *Account) Keys() []string {
	keys := make([]string, 0, len(a.settings))
	for k := range a.settings {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of settings held directly by this account.
func (a *Account) Len() int {
	return len(a.settings)
}

// IsEmpty reports whether this account holds no direct settings.
func (a *Account) IsEmpty() bool {
	return len(a.settings) == 0
}

// PushChild appends a child at the highest priority with an unchecked
// validity marker. Duplicate sibling names are permitted; lookups that
// traverse siblings by name find the later (higher-priority) one first.
func (a *Account) PushChild(c *Account) {
	a.PushChildMarked(c, ValidityUnchecked)
}

// PushChildMarked appends a child at the highest priority, storing the
// given validity marker alongside it.
func (a *Account) PushChildMarked(c *Account, v Validity) {
	a.children = append(a.children, childSlot{account: c, validity: v})
}

// PopChild removes and returns the highest-priority (last pushed) child and
// its validity marker. It reports false if there are no children.
func (a *Account) PopChild() (*Account, Validity, bool) {
	if len(a.children) == 0 {
		return nil, ValidityUnchecked, false
	}
	last := a.children[len(a.children)-1]
	a.children[len(a.children)-1] = childSlot{}
	a.children = a.children[:len(a.children)-1]
	return last.account, last.validity, true
}

// NumChildren returns the number of direct children.
func (a *Account) NumChildren() int {
	return len(a.children)
}

// Child returns the child at insertion index i (0 is the lowest priority)
// and its validity marker. It reports false when i is out of range.
func (a *Account) Child(i int) (*Account, Validity, bool) {
	if i < 0 || i >= len(a.children) {
		return nil, ValidityUnchecked, false
	}
	return a.children[i].account, a.children[i].validity, true
}

// ChildNames returns the names of the direct children in priority order,
// highest first.
func (a *Account) ChildNames() []string {
	names := make([]string, 0, len(a.children))
	for i := len(a.children) - 1; i >= 0; i-- {
		names = append(names, a.children[i].account.name)
	}
	return names
}

// ChildValidity returns the validity marker of the highest-priority child
// with the given name. It reports false if no child matches.
func (a *Account) ChildValidity(name string) (Validity, bool) {
	for i := len(a.children) - 1; i >= 0; i-- {
		if a.children[i].account.name == name {
			return a.children[i].validity, true
		}
	}
	return ValidityUnchecked, false
}

// SetChildValidity sets the validity marker on the highest-priority child
// with the given name. It reports false if no child matches.
func (a *Account) SetChildValidity(name string, v Validity) bool {
	for i := len(a.children) - 1; i >= 0; i-- {
		if a.children[i].account.name == name {
			a.children[i].validity = v
			return true
		}
	}
	return false
}

// Get resolves key starting at this account: its own settings win, then
// children are scanned in reverse insertion order (most recently pushed
// first), recursively, skipping inactive children and their entire
// subtrees. The first cell found wins. The account's own active flag is not
// consulted; activity filters children, not the root of the lookup.
func (a *Account) Get(key string) (Setting, bool) {
	if s, ok := a.settings[key]; ok {
		return s, true
	}
	for i := len(a.children) - 1; i >= 0; i-- {
		child := a.children[i].account
		if !child.active {
			continue
		}
		if s, ok := child.Get(key); ok {
			return s, true
		}
	}
	return Setting{}, false
}

// Get resolves key starting at acc and extracts the cell as type T.
// It returns ErrKeyNotFound when no active layer defines the key, and a
// *TypeMismatchError when the key resolves to a cell of another type. The
// two conditions are never conflated.
//
// Example:
//
//	word, err := tansu.Get[string](acc, "word")
func Get[T any](acc *Account, key string) (T, error) {
	s, ok := acc.Get(key)
	if !ok {
		var zero T
		return zero, ErrKeyNotFound
	}
	return TryUnwrap[T](s)
}

// MustGet is the contract-assertion form of Get: it panics when the key is
// missing or the resolved cell has another type.
func MustGet[T any](acc *Account, key string) T {
	v, err := Get[T](acc, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Deep returns the descendant account addressed by path, where each segment
// names a child one level down. At each level children are searched in
// priority order (reverse insertion), regardless of their active flags:
// path addressing is an explicit access mode, distinct from resolution, and
// is the only way to reach settings shadowed by higher-priority layers or
// hidden behind an inactive flag.
//
// The returned pointer may be mutated in place; treat the result as
// read-only when a read-only view is intended.
func (a *Account) Deep(path ...string) (*Account, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	cur := a
	for depth, segment := range path {
		next := cur.findChild(segment)
		if next == nil {
			return nil, &PathNotFoundError{
				Path:    append([]string(nil), path...),
				Segment: segment,
				Depth:   depth,
			}
		}
		cur = next
	}
	return cur, nil
}

// findChild returns the highest-priority child with the given name, active
// or not. Same scan order as Get.
func (a *Account) findChild(name string) *Account {
	for i := len(a.children) - 1; i >= 0; i-- {
		if a.children[i].account.name == name {
			return a.children[i].account
		}
	}
	return nil
}

// DeepGet resolves key on the descendant addressed by path. The descendant
// runs its own resolution from there, so inactive layers below it still
// apply their usual rules.
func (a *Account) DeepGet(key string, path ...string) (Setting, error) {
	acc, err := a.Deep(path...)
	if err != nil {
		return Setting{}, err
	}
	s, ok := acc.Get(key)
	if !ok {
		return Setting{}, ErrKeyNotFound
	}
	return s, nil
}

// DeepInsert inserts a settings entry on the descendant addressed by path,
// returning the previous cell as Insert does.
func (a *Account) DeepInsert(key string, s Setting, path ...string) (Setting, bool, error) {
	acc, err := a.Deep(path...)
	if err != nil {
		return Setting{}, false, err
	}
	prev, replaced := acc.Insert(key, s)
	return prev, replaced, nil
}

// DeepRemove removes a settings entry from the descendant addressed by path.
func (a *Account) DeepRemove(key string, path ...string) (Setting, bool, error) {
	acc, err := a.Deep(path...)
	if err != nil {
		return Setting{}, false, err
	}
	prev, removed := acc.Remove(key)
	return prev, removed, nil
}

// DeepSetActive flips the activity flag of the descendant addressed by
// path, returning its previous state.
func (a *Account) DeepSetActive(active bool, path ...string) (bool, error) {
	acc, err := a.Deep(path...)
	if err != nil {
		return false, err
	}
	return acc.SetActive(active), nil
}

// DeepRename renames the descendant addressed by path, returning its
// previous name.
func (a *Account) DeepRename(name string, path ...string) (string, error) {
	acc, err := a.Deep(path...)
	if err != nil {
		return "", err
	}
	return acc.Rename(name), nil
}

// Clone returns a deep copy of the account: settings cells are duplicated
// and children copied recursively. The copy shares no state with the
// original.
func (a *Account) Clone() *Account {
	clone := &Account{
		name:     a.name,
		active:   a.active,
		settings: make(map[string]Setting, len(a.settings)),
	}
	for k, s := range a.settings {
		clone.settings[k] = s.Clone()
	}
	if len(a.children) > 0 {
		clone.children = make([]childSlot, len(a.children))
		for i, cs := range a.children {
			clone.children[i] = childSlot{account: cs.account.Clone(), validity: cs.validity}
		}
	}
	return clone
}

// Equal reports whether two accounts have the same name, activity,
// settings, and children (in the same order, with the same validity
// markers), recursively.
func (a *Account) Equal(b *Account) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.name != b.name || a.active != b.active {
		return false
	}
	if len(a.settings) != len(b.settings) || len(a.children) != len(b.children) {
		return false
	}
	for k, s := range a.settings {
		o, ok := b.settings[k]
		if !ok || !s.Equal(o) {
			return false
		}
	}
	for i := range a.children {
		if a.children[i].validity != b.children[i].validity {
			return false
		}
		if !a.children[i].account.Equal(b.children[i].account) {
			return false
		}
	}
	return true
}

// VerifyChildren recomputes the validity marker of every child slot and
// returns the aggregate. A child is marked valid when its name is unique
// among its siblings and its own children verify as valid, recursively.
// Markers are annotations only; resolution never consults them.
func (a *Account) VerifyChildren() Validity {
	counts := make(map[string]int, len(a.children))
	for _, cs := range a.children {
		counts[cs.account.name]++
	}
	agg := ValidityValid
	for i := range a.children {
		v := ValidityValid
		if counts[a.children[i].account.name] > 1 {
			v = ValidityInvalid
		}
		if a.children[i].account.VerifyChildren() == ValidityInvalid {
			v = ValidityInvalid
		}
		a.children[i].validity = v
		if v == ValidityInvalid {
			agg = ValidityInvalid
		}
	}
	return agg
}
