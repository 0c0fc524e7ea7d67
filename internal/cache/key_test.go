package cache

import (
	"strings"
	"testing"
)

func TestKey_Stable(t *testing.T) {
	t.Parallel()
	a := Key("sellers.byid", int64(1))
	b := Key("sellers.byid", int64(1))
	if a != b {
		t.Errorf("same namespace and args should derive the same key: %q vs %q", a, b)
	}
}

func TestKey_DistinctArgs(t *testing.T) {
	t.Parallel()
	if Key("sellers.byid", int64(1)) == Key("sellers.byid", int64(2)) {
		t.Error("different ids should derive different keys")
	}
}

func TestKey_DistinctNamespaces(t *testing.T) {
	t.Parallel()
	if Key("sellers.byid", int64(1)) == Key("sellers.list", int64(1)) {
		t.Error("different namespaces should derive different keys")
	}
	if Key("sellers.byid", int64(1)) == Key("sellers.list") {
		t.Error("by-id and list keys should differ")
	}
}

func TestKey_NamespacePrefix(t *testing.T) {
	t.Parallel()
	key := Key("sellers.byid", int64(7))
	if !strings.HasPrefix(key, "sellers.byid"+keySeparator) {
		t.Errorf("key %q should keep the namespace as a literal prefix", key)
	}
	if Key("sellers.list") != "sellers.list" {
		t.Error("no-arg key should be the bare namespace")
	}
}

func TestKey_ArgKinds(t *testing.T) {
	t.Parallel()
	// Pagination maps must render deterministically.
	m1 := map[string]int{"offset": 0, "limit": 50}
	m2 := map[string]int{"limit": 50, "offset": 0}
	if Key("sellers.list", m1) != Key("sellers.list", m2) {
		t.Error("map argument order should not affect the key")
	}

	id := int64(3)
	if Key("sellers.byid", &id) != Key("sellers.byid", int64(3)) {
		t.Error("pointer args should render as their pointee")
	}

	if Key("sellers.list", []int{1, 2}) == Key("sellers.list", []int{2, 1}) {
		t.Error("slice element order should affect the key")
	}
}

func TestKey_PanicsOnUnkeyable(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("func argument should panic")
		}
	}()
	Key("sellers.list", func() {})
}

func TestKey_PanicsOnEmptyNamespace(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("empty namespace should panic")
		}
	}()
	Key("")
}
