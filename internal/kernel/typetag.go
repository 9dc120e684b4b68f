package kernel

import (
	"reflect"
	"strings"
)

// lowerTypeName returns the lowercase, unqualified Go type name of e's
// concrete value, used as the fallback kind tag for entities that don't
// implement SnapshotTyped.
func lowerTypeName(e Entity) string {
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
