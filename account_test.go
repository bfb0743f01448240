package tansu

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	acc := New("root")
	if acc.Name() != "root" {
		t.Errorf("Name() = %q, want %q", acc.Name(), "root")
	}
	if !acc.Active() {
		t.Error("new account is inactive, want active")
	}
	if !acc.IsEmpty() || acc.Len() != 0 {
		t.Error("new account is not empty")
	}
	if acc.NumChildren() != 0 {
		t.Errorf("NumChildren() = %d, want 0", acc.NumChildren())
	}
}

func TestNewOptions(t *testing.T) {
	seed := map[string]Setting{"lines": Wrap(3)}
	child := New("child")
	acc := New("root",
		WithActive(false),
		WithSettings(seed),
		WithChild(child, ValidityValid),
	)

	if acc.Active() {
		t.Error("WithActive(false) ignored")
	}
	if !acc.Contains("lines") {
		t.Error("WithSettings did not seed the account")
	}
	if v, ok := acc.ChildValidity("child"); !ok || v != ValidityValid {
		t.Errorf("ChildValidity() = %v, %v, want valid, true", v, ok)
	}

	// Mutating the seed map afterwards must not leak into the account.
	seed["extra"] = Wrap(1)
	if acc.Contains("extra") {
		t.Error("account shares the caller's settings map")
	}
}

func TestInsertRemove(t *testing.T) {
	acc := New("root")

	prev, replaced := acc.Insert("word", Wrap("first"))
	if replaced {
		t.Errorf("Insert() on a fresh key reported previous cell %v", prev)
	}

	prev, replaced = acc.Insert("word", Wrap("second"))
	if !replaced {
		t.Error("Insert() overwrite did not report the previous cell")
	}
	if got := Unwrap[string](prev); got != "first" {
		t.Errorf("previous cell = %q, want %q", got, "first")
	}

	removed, ok := acc.Remove("word")
	if !ok {
		t.Fatal("Remove() did not find the key")
	}
	if got := Unwrap[string](removed); got != "second" {
		t.Errorf("removed cell = %q, want %q", got, "second")
	}

	// Removing again is a no-op.
	if _, ok := acc.Remove("word"); ok {
		t.Error("Remove() of a missing key reported ok")
	}
	if acc.Contains("word") {
		t.Error("key still present after Remove")
	}

	// Re-inserting the removed cell restores the observable state.
	acc.Insert("word", removed)
	s, ok := acc.Get("word")
	if !ok || !s.Equal(removed) {
		t.Errorf(`Get("word") after re-insert = %v, %v, want the removed cell back`, s.Value(), ok)
	}
}

func TestKeysAndLen(t *testing.T) {
	acc := New("root", WithSettings(map[string]Setting{
		"a": Wrap(1),
		"b": Wrap(2),
	}))
	if acc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", acc.Len())
	}
	keys := acc.Keys()
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
}

func TestRenameAndSetActive(t *testing.T) {
	acc := New("old")
	if prev := acc.Rename("new"); prev != "old" {
		t.Errorf("Rename() previous = %q, want %q", prev, "old")
	}
	if acc.Name() != "new" {
		t.Errorf("Name() = %q, want %q", acc.Name(), "new")
	}

	if prev := acc.SetActive(false); !prev {
		t.Error("SetActive() previous = false, want true")
	}
	if acc.Active() {
		t.Error("account still active after SetActive(false)")
	}
}

func TestChildStack(t *testing.T) {
	acc := New("root")
	acc.PushChild(New("a"))
	acc.PushChildMarked(New("b"), ValidityInvalid)

	if acc.NumChildren() != 2 {
		t.Fatalf("NumChildren() = %d, want 2", acc.NumChildren())
	}
	if names := acc.ChildNames(); !reflect.DeepEqual(names, []string{"b", "a"}) {
		t.Errorf("ChildNames() = %v, want [b a] (highest priority first)", names)
	}

	child, v, ok := acc.Child(0)
	if !ok || child.Name() != "a" || v != ValidityUnchecked {
		t.Errorf("Child(0) = %v, %v, %v, want a, unchecked, true", child, v, ok)
	}
	if _, _, ok := acc.Child(2); ok {
		t.Error("Child(2) out of range reported ok")
	}

	popped, v, ok := acc.PopChild()
	if !ok || popped.Name() != "b" || v != ValidityInvalid {
		t.Errorf("PopChild() = %v, %v, %v, want b, invalid, true", popped, v, ok)
	}
	popped, _, ok = acc.PopChild()
	if !ok || popped.Name() != "a" {
		t.Errorf("PopChild() = %v, %v, want a, true", popped, ok)
	}
	if _, _, ok := acc.PopChild(); ok {
		t.Error("PopChild() on empty account reported ok")
	}
}

// settingsTree builds the layered scenario used throughout the resolution
// tests: defaults at the bottom, then global, then local on top, plus an
// inactive child that resolution must skip but paths must still reach.
func settingsTree() *Account {
	root := New("root")
	root.PushChild(New("Default", WithSettings(map[string]Setting{
		"lines":           Wrap(3),
		"word_repetition": Wrap(10),
		"word":            Wrap("default"),
	})))
	root.PushChild(New("Global", WithSettings(map[string]Setting{
		"word_repetition": Wrap(2),
		"word":            Wrap("global"),
	})))
	root.PushChild(New("Local", WithSettings(map[string]Setting{
		"word": Wrap("local"),
	})))
	root.PushChild(New("Inactive",
		WithActive(false),
		WithSettings(map[string]Setting{
			"word": Wrap("inactive"),
		})))
	return root
}

func TestGetResolution(t *testing.T) {
	root := settingsTree()

	tests := []struct {
		key  string
		want any
	}{
		{"word", "local"},          // highest active layer wins
		{"word_repetition", 2},     // Global shadows Default
		{"lines", 3},               // only Default defines it
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, ok := root.Get(tt.key)
			if !ok {
				t.Fatalf("Get(%q) not found", tt.key)
			}
			if s.Value() != tt.want {
				t.Errorf("Get(%q) = %v, want %v", tt.key, s.Value(), tt.want)
			}
		})
	}

	t.Run("missing key", func(t *testing.T) {
		if _, ok := root.Get("nope"); ok {
			t.Error("Get() of an undefined key reported ok")
		}
	})

	t.Run("inactive child reached by path", func(t *testing.T) {
		inactive, err := root.Deep("Inactive")
		if err != nil {
			t.Fatalf(`Deep("Inactive") error = %v`, err)
		}
		s, ok := inactive.Get("word")
		if !ok || s.Value() != "inactive" {
			t.Errorf(`Deep("Inactive").Get("word") = %v, %v, want "inactive", true`, s.Value(), ok)
		}
	})
}

func TestGetOwnEntryWins(t *testing.T) {
	root := settingsTree()
	root.Insert("word", Wrap("own"))

	s, ok := root.Get("word")
	if !ok || s.Value() != "own" {
		t.Errorf(`Get("word") = %v, %v, want "own", true (own settings shadow children)`, s.Value(), ok)
	}
}

func TestGetSkipsInactiveSubtree(t *testing.T) {
	// The hidden grandchild defines the key, but its parent is inactive,
	// so the whole subtree is invisible to resolution.
	hidden := New("hidden", WithSettings(map[string]Setting{"word": Wrap("hidden")}))
	off := New("off", WithActive(false))
	off.PushChild(hidden)

	root := New("root")
	root.PushChild(off)

	if _, ok := root.Get("word"); ok {
		t.Error("Get() found a key inside an inactive subtree")
	}

	// Reactivating the parent makes the subtree visible again.
	off.SetActive(true)
	s, ok := root.Get("word")
	if !ok || s.Value() != "hidden" {
		t.Errorf(`Get("word") after reactivation = %v, %v, want "hidden", true`, s.Value(), ok)
	}
}

func TestGetPriorityCascade(t *testing.T) {
	// Three siblings define the same key. Deactivating them one by one
	// hands the key to the next layer down, deterministically.
	root := New("root")
	for _, name := range []string{"A", "B", "C"} {
		root.PushChild(New(name, WithSettings(map[string]Setting{
			"word": Wrap(name),
		})))
	}

	for _, want := range []string{"C", "B", "A"} {
		s, ok := root.Get("word")
		if !ok || s.Value() != want {
			t.Fatalf(`Get("word") = %v, %v, want %q`, s.Value(), ok, want)
		}
		acc, err := root.Deep(want)
		if err != nil {
			t.Fatalf("Deep(%q) error = %v", want, err)
		}
		acc.SetActive(false)
	}

	if _, ok := root.Get("word"); ok {
		t.Error("Get() found a key with every defining layer inactive")
	}
}

func TestTypedGet(t *testing.T) {
	root := settingsTree()

	t.Run("resolved", func(t *testing.T) {
		got, err := Get[string](root, "word")
		if err != nil {
			t.Fatalf("Get[string]() error = %v", err)
		}
		if got != "local" {
			t.Errorf("Get[string]() = %q, want %q", got, "local")
		}
	})

	t.Run("key not found", func(t *testing.T) {
		_, err := Get[string](root, "nope")
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get[string]() error = %v, want ErrKeyNotFound", err)
		}
		var mismatch *TypeMismatchError
		if errors.As(err, &mismatch) {
			t.Error("missing key reported as a type mismatch")
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := Get[string](root, "lines")
		var mismatch *TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("Get[string]() error = %v, want *TypeMismatchError", err)
		}
		if errors.Is(err, ErrKeyNotFound) {
			t.Error("type mismatch reported as a missing key")
		}
		if mismatch.Expected != reflect.TypeOf((*string)(nil)).Elem() || mismatch.Actual != reflect.TypeOf((*int)(nil)).Elem() {
			t.Errorf("mismatch = %v, want string vs int", mismatch)
		}
	})

	t.Run("must get panics on mismatch", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustGet[string]() on an int cell did not panic")
			}
		}()
		MustGet[string](root, "lines")
	})
}

func TestDeep(t *testing.T) {
	leaf := New("leaf", WithSettings(map[string]Setting{"word": Wrap("deep")}))
	mid := New("mid")
	mid.PushChild(leaf)
	root := New("root")
	root.PushChild(mid)

	t.Run("two segments", func(t *testing.T) {
		acc, err := root.Deep("mid", "leaf")
		if err != nil {
			t.Fatalf("Deep() error = %v", err)
		}
		if acc != leaf {
			t.Error("Deep() did not return the leaf account itself")
		}
	})

	t.Run("mutation through the result", func(t *testing.T) {
		acc, err := root.Deep("mid", "leaf")
		if err != nil {
			t.Fatalf("Deep() error = %v", err)
		}
		acc.Insert("added", Wrap(1))
		if !leaf.Contains("added") {
			t.Error("mutation through Deep() result did not reach the tree")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := root.Deep()
		if !errors.Is(err, ErrEmptyPath) {
			t.Errorf("Deep() error = %v, want ErrEmptyPath", err)
		}
	})

	t.Run("unknown segment", func(t *testing.T) {
		_, err := root.Deep("mid", "ghost")
		var notFound *PathNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Deep() error = %v, want *PathNotFoundError", err)
		}
		if notFound.Segment != "ghost" || notFound.Depth != 1 {
			t.Errorf("PathNotFoundError = %+v, want segment ghost at depth 1", notFound)
		}
	})

	t.Run("inactive segments traversed", func(t *testing.T) {
		mid.SetActive(false)
		defer mid.SetActive(true)
		if _, err := root.Deep("mid", "leaf"); err != nil {
			t.Errorf("Deep() through an inactive segment error = %v", err)
		}
	})
}

func TestDeepDuplicateNames(t *testing.T) {
	// Two siblings share a name; paths resolve to the higher-priority one.
	root := New("root")
	root.PushChild(New("twin", WithSettings(map[string]Setting{"n": Wrap(1)})))
	root.PushChild(New("twin", WithSettings(map[string]Setting{"n": Wrap(2)})))

	acc, err := root.Deep("twin")
	if err != nil {
		t.Fatalf("Deep() error = %v", err)
	}
	if got := MustGet[int](acc, "n"); got != 2 {
		t.Errorf("Deep() resolved the lower-priority twin: n = %d, want 2", got)
	}
}

func TestDeepOperations(t *testing.T) {
	root := settingsTree()

	t.Run("DeepGet", func(t *testing.T) {
		s, err := root.DeepGet("word", "Default")
		if err != nil {
			t.Fatalf("DeepGet() error = %v", err)
		}
		if s.Value() != "default" {
			t.Errorf("DeepGet() = %v, want %q", s.Value(), "default")
		}

		if _, err := root.DeepGet("nope", "Default"); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("DeepGet() error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("DeepInsert", func(t *testing.T) {
		_, replaced, err := root.DeepInsert("fresh", Wrap(true), "Global")
		if err != nil || replaced {
			t.Fatalf("DeepInsert() = %v, %v, want false, nil", replaced, err)
		}
		s, err := root.DeepGet("fresh", "Global")
		if err != nil || s.Value() != true {
			t.Errorf("DeepGet() after DeepInsert = %v, %v", s.Value(), err)
		}
	})

	t.Run("DeepRemove", func(t *testing.T) {
		removed, ok, err := root.DeepRemove("word", "Local")
		if err != nil || !ok {
			t.Fatalf("DeepRemove() = %v, %v", ok, err)
		}
		if removed.Value() != "local" {
			t.Errorf("DeepRemove() removed %v, want %q", removed.Value(), "local")
		}
		// Resolution now falls through to Global.
		if got := MustGet[string](root, "word"); got != "global" {
			t.Errorf(`Get("word") after removal = %q, want %q`, got, "global")
		}
	})

	t.Run("DeepSetActive", func(t *testing.T) {
		prev, err := root.DeepSetActive(true, "Inactive")
		if err != nil || prev {
			t.Fatalf("DeepSetActive() = %v, %v, want false, nil", prev, err)
		}
		if got := MustGet[string](root, "word"); got != "inactive" {
			t.Errorf(`Get("word") after activation = %q, want %q`, got, "inactive")
		}
	})

	t.Run("DeepRename", func(t *testing.T) {
		prev, err := root.DeepRename("Fallback", "Default")
		if err != nil || prev != "Default" {
			t.Fatalf("DeepRename() = %q, %v, want Default, nil", prev, err)
		}
		if _, err := root.Deep("Default"); err == nil {
			t.Error("old name still addressable after DeepRename")
		}
		if _, err := root.Deep("Fallback"); err != nil {
			t.Errorf("new name not addressable after DeepRename: %v", err)
		}
	})

	t.Run("path errors propagate", func(t *testing.T) {
		var notFound *PathNotFoundError
		if _, _, err := root.DeepInsert("k", Wrap(1), "ghost"); !errors.As(err, &notFound) {
			t.Errorf("DeepInsert() error = %v, want *PathNotFoundError", err)
		}
		if _, err := root.DeepSetActive(true); !errors.Is(err, ErrEmptyPath) {
			t.Errorf("DeepSetActive() error = %v, want ErrEmptyPath", err)
		}
	})
}

func TestClone(t *testing.T) {
	root := settingsTree()
	clone := root.Clone()

	if !clone.Equal(root) {
		t.Fatal("clone is not equal to the original")
	}

	// Mutations on the clone must not reach the original and vice versa.
	clone.Insert("word", Wrap("cloned"))
	if root.Contains("word") {
		t.Error("clone shares the settings map with the original")
	}

	clonedLocal, err := clone.Deep("Local")
	if err != nil {
		t.Fatalf(`clone.Deep("Local") error = %v`, err)
	}
	clonedLocal.Insert("word", Wrap("mutated"))

	origLocal, err := root.Deep("Local")
	if err != nil {
		t.Fatalf(`root.Deep("Local") error = %v`, err)
	}
	if s, _ := origLocal.Local("word"); s.Value() == "mutated" {
		t.Error("clone shares child accounts with the original")
	}

	root.PushChild(New("extra"))
	if clone.NumChildren() != 4 {
		t.Errorf("clone NumChildren() = %d, want 4", clone.NumChildren())
	}
}

func TestEqual(t *testing.T) {
	t.Run("equal trees", func(t *testing.T) {
		if !settingsTree().Equal(settingsTree()) {
			t.Error("identically built trees are not equal")
		}
	})

	t.Run("name differs", func(t *testing.T) {
		a, b := settingsTree(), settingsTree()
		b.Rename("other")
		if a.Equal(b) {
			t.Error("trees with different names are equal")
		}
	})

	t.Run("activity differs", func(t *testing.T) {
		a, b := settingsTree(), settingsTree()
		if _, err := b.DeepSetActive(true, "Inactive"); err != nil {
			t.Fatal(err)
		}
		if a.Equal(b) {
			t.Error("trees with different activity are equal")
		}
	})

	t.Run("setting differs", func(t *testing.T) {
		a, b := settingsTree(), settingsTree()
		if _, _, err := b.DeepInsert("word", Wrap("changed"), "Local"); err != nil {
			t.Fatal(err)
		}
		if a.Equal(b) {
			t.Error("trees with different settings are equal")
		}
	})

	t.Run("child order differs", func(t *testing.T) {
		a := New("root", WithChild(New("x"), ValidityUnchecked), WithChild(New("y"), ValidityUnchecked))
		b := New("root", WithChild(New("y"), ValidityUnchecked), WithChild(New("x"), ValidityUnchecked))
		if a.Equal(b) {
			t.Error("trees with different child order are equal")
		}
	})

	t.Run("validity marker differs", func(t *testing.T) {
		a := New("root", WithChild(New("x"), ValidityValid))
		b := New("root", WithChild(New("x"), ValidityInvalid))
		if a.Equal(b) {
			t.Error("trees with different validity markers are equal")
		}
	})

	t.Run("nil handling", func(t *testing.T) {
		var nilAcc *Account
		if nilAcc.Equal(New("root")) {
			t.Error("nil account equals a real one")
		}
		if !nilAcc.Equal(nil) {
			t.Error("nil accounts are not equal to each other")
		}
	})
}

func TestVerifyChildren(t *testing.T) {
	t.Run("unique names verify valid", func(t *testing.T) {
		root := settingsTree()
		if got := root.VerifyChildren(); got != ValidityValid {
			t.Errorf("VerifyChildren() = %v, want valid", got)
		}
		for _, name := range root.ChildNames() {
			if v, _ := root.ChildValidity(name); v != ValidityValid {
				t.Errorf("child %q marked %v, want valid", name, v)
			}
		}
	})

	t.Run("duplicate names marked invalid", func(t *testing.T) {
		root := New("root")
		root.PushChild(New("twin"))
		root.PushChild(New("twin"))
		root.PushChild(New("solo"))

		if got := root.VerifyChildren(); got != ValidityInvalid {
			t.Errorf("VerifyChildren() = %v, want invalid", got)
		}
		if v, _ := root.ChildValidity("twin"); v != ValidityInvalid {
			t.Errorf("duplicate child marked %v, want invalid", v)
		}
		if v, _ := root.ChildValidity("solo"); v != ValidityValid {
			t.Errorf("unique child marked %v, want valid", v)
		}
	})

	t.Run("invalid grandchildren propagate", func(t *testing.T) {
		inner := New("inner")
		inner.PushChild(New("dup"))
		inner.PushChild(New("dup"))
		root := New("root")
		root.PushChild(inner)

		if got := root.VerifyChildren(); got != ValidityInvalid {
			t.Errorf("VerifyChildren() = %v, want invalid", got)
		}
		if v, _ := root.ChildValidity("inner"); v != ValidityInvalid {
			t.Errorf("parent of duplicates marked %v, want invalid", v)
		}
	})

	t.Run("markers never gate resolution", func(t *testing.T) {
		root := New("root")
		root.PushChildMarked(New("child", WithSettings(map[string]Setting{
			"k": Wrap(1),
		})), ValidityInvalid)

		if _, ok := root.Get("k"); !ok {
			t.Error("an invalid marker hid a child from resolution")
		}
	})
}

func TestValidityText(t *testing.T) {
	for _, tt := range []struct {
		v    Validity
		text string
	}{
		{ValidityUnchecked, "unchecked"},
		{ValidityValid, "valid"},
		{ValidityInvalid, "invalid"},
	} {
		if got := tt.v.String(); got != tt.text {
			t.Errorf("String() = %q, want %q", got, tt.text)
		}
		parsed, ok := ParseValidity(tt.text)
		if !ok || parsed != tt.v {
			t.Errorf("ParseValidity(%q) = %v, %v, want %v, true", tt.text, parsed, ok, tt.v)
		}
	}

	if _, ok := ParseValidity("bogus"); ok {
		t.Error("ParseValidity accepted unknown text")
	}
	if v, ok := ParseValidity(""); !ok || v != ValidityUnchecked {
		t.Errorf(`ParseValidity("") = %v, %v, want unchecked, true`, v, ok)
	}
}
