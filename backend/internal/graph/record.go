package graph

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Record is a flat key/value row that remembers the order keys were first set.
// It marshals to a JSON object in that order.
type Record struct {
	keys   []string
	values map[string]interface{}
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]interface{})}
}

// RecordFromMap builds a record from a map, keys in sorted order.
func RecordFromMap(m map[string]interface{}) *Record {
	rec := NewRecord()
	for _, k := range sortedKeys(m) {
		rec.Set(k, m[k])
	}
	return rec
}

// Set stores a value. A new key is appended; an existing key keeps its position.
func (r *Record) Set(key string, value interface{}) {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Map returns an unordered copy of the fields.
func (r *Record) Map() map[string]interface{} {
	out := make(map[string]interface{}, r.Len())
	for _, k := range r.Keys() {
		out[k] = r.values[k]
	}
	return out
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := compactJSON(k)
		if err != nil {
			return nil, err
		}
		buf.WriteString(key)
		buf.WriteByte(':')
		val, err := compactJSON(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.WriteString(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SerializeRecord converts a driver record into a Record, column order kept
// and every value passed through SerializeValue.
func SerializeRecord(rec *neo4j.Record) *Record {
	out := NewRecord()
	if rec == nil {
		return out
	}
	for i, key := range rec.Keys {
		if i < len(rec.Values) {
			out.Set(key, SerializeValue(rec.Values[i]))
		}
	}
	return out
}

// SerializeValue turns store-native values into plain data.
//
// Nodes become {element_id, labels, ...props} with labels sorted and joined by
// ":"; relationships become {element_id, type, start_node, end_node, ...props};
// paths become {nodes, relationships}. Maps and lists are walked recursively,
// byte arrays decode as UTF-8 with invalid sequences replaced, and everything
// else is returned unchanged.
func SerializeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case neo4j.Node:
		return serializeNode(v)
	case *neo4j.Node:
		if v == nil {
			return nil
		}
		return serializeNode(*v)
	case neo4j.Relationship:
		return serializeRelationship(v)
	case *neo4j.Relationship:
		if v == nil {
			return nil
		}
		return serializeRelationship(*v)
	case neo4j.Path:
		nodes := make([]interface{}, 0, len(v.Nodes))
		for _, n := range v.Nodes {
			nodes = append(nodes, serializeNode(n))
		}
		rels := make([]interface{}, 0, len(v.Relationships))
		for _, rel := range v.Relationships {
			rels = append(rels, serializeRelationship(rel))
		}
		out := NewRecord()
		out.Set("nodes", nodes)
		out.Set("relationships", rels)
		return out
	case map[string]interface{}:
		out := NewRecord()
		for _, k := range sortedKeys(v) {
			out.Set(k, SerializeValue(v[k]))
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = SerializeValue(item)
		}
		return out
	case []byte:
		return strings.ToValidUTF8(string(v), "�")
	default:
		return value
	}
}

func serializeNode(n neo4j.Node) *Record {
	labels := make([]string, len(n.Labels))
	copy(labels, n.Labels)
	sort.Strings(labels)

	out := NewRecord()
	out.Set("element_id", n.ElementId)
	out.Set("labels", strings.Join(labels, ":"))
	for _, k := range sortedKeys(n.Props) {
		out.Set(k, SerializeValue(n.Props[k]))
	}
	return out
}

func serializeRelationship(rel neo4j.Relationship) *Record {
	out := NewRecord()
	out.Set("element_id", rel.ElementId)
	out.Set("type", rel.Type)
	out.Set("start_node", rel.StartElementId)
	out.Set("end_node", rel.EndElementId)
	for _, k := range sortedKeys(rel.Props) {
		out.Set(k, SerializeValue(rel.Props[k]))
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compactJSON encodes v without HTML escaping and without a trailing newline.
func compactJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
