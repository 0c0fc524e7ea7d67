package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// keySeparator delimits the namespace from the argument digest.
const keySeparator = "::"

// Key derives a deterministic cache key from a logical namespace (e.g.
// "sellers.byid") and the arguments that distinguish one cached result
// from another. The namespace stays a literal prefix so whole namespaces
// can be invalidated with a glob like "sellers*"; the arguments are
// folded into a SHA-256 digest scoped to the namespace, so identical
// arguments under different namespaces never collide.
//
// Arguments that have no stable rendering (funcs, channels) are a
// programming error and panic rather than silently colliding.
func Key(namespace string, args ...any) string {
	if namespace == "" {
		panic("cache: empty key namespace")
	}
	if len(args) == 0 {
		return namespace
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, namespace)
	for _, a := range args {
		parts = append(parts, renderArg(a))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, keySeparator)))
	return namespace + keySeparator + hex.EncodeToString(sum[:])
}

// renderArg produces a stable string form of a key argument.
func renderArg(v any) string {
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		panic(fmt.Sprintf("cache: unkeyable argument of type %T", v))

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "nil"
		}
		return renderArg(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "nil"
		}
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = renderArg(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ",") + "]"

	case reflect.Map:
		if rv.IsNil() {
			return "nil"
		}
		// Sorted key=value pairs for deterministic output.
		pairs := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, renderArg(iter.Key().Interface())+"="+renderArg(iter.Value().Interface()))
		}
		sort.Strings(pairs)
		return "{" + strings.Join(pairs, ",") + "}"

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return fmt.Sprintf("%v", v)

	default:
		// Structs and anything else: JSON is stable for a fixed type.
		data, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("cache: unkeyable argument of type %T: %v", v, err))
		}
		return string(data)
	}
}
