package graph

import (
	"fmt"
	"reflect"
	"strings"
)

// preferredKeys follow labels at the front of a flattened record.
var preferredKeys = []string{"name", "title", "id"}

// Flatten projects a serialized node or relationship into a display row.
//
// Field order: labels, then name/title/id when present and non-nil, then
// element_id, then every other field in its original order. Labels are joined
// with ", " unless already a string. Remaining map values render as compact
// JSON and list values as a ", "-joined string; scalars pass through. The
// input is not modified.
func Flatten(in *Record) *Record {
	out := NewRecord()
	if in == nil {
		return out
	}

	if labels, ok := in.Get("labels"); ok && labels != nil {
		out.Set("labels", labelString(labels))
	}

	for _, key := range preferredKeys {
		if v, ok := in.Get(key); ok && v != nil {
			out.Set(key, v)
		}
	}

	if v, ok := in.Get("element_id"); ok {
		out.Set("element_id", v)
	}

	for _, key := range in.Keys() {
		if out.Has(key) {
			continue
		}
		v, _ := in.Get(key)
		out.Set(key, stringify(v))
	}

	return out
}

func labelString(labels interface{}) string {
	if s, ok := labels.(string); ok {
		return s
	}
	if items, ok := sliceItems(labels); ok {
		return joinItems(items)
	}
	return elementString(labels)
}

func stringify(value interface{}) interface{} {
	switch value.(type) {
	case nil, string:
		return value
	case *Record, Record, map[string]interface{}:
		return elementString(value)
	}
	if items, ok := sliceItems(value); ok {
		return joinItems(items)
	}
	return value
}

// sliceItems unpacks any slice or array except byte slices.
func sliceItems(value interface{}) ([]interface{}, bool) {
	if _, isBytes := value.([]byte); isBytes {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func joinItems(items []interface{}) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = elementString(item)
	}
	return strings.Join(parts, ", ")
}

func elementString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case *Record, Record, map[string]interface{}:
		s, err := compactJSON(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return s
	default:
		return fmt.Sprint(v)
	}
}
