package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	apperrors "sweepgraph/backend/pkg/errors"
)

// defaultLabel matches the label the store applies to unlabeled nodes.
const defaultLabel = "Node"

// Document is one import file: nodes and relationships, both optional.
// Any other top-level keys are ignored.
type Document struct {
	Nodes         []NodeDescriptor         `json:"nodes,omitempty"`
	Relationships []RelationshipDescriptor `json:"relationships,omitempty"`
}

// NodeDescriptor describes a node to upsert. Properties must carry "id".
type NodeDescriptor struct {
	Labels     []string               `json:"labels,omitempty"`
	Properties map[string]interface{} `json:"properties"`
}

// RelationshipDescriptor describes a directed edge between two nodes named
// by their id property.
type RelationshipDescriptor struct {
	SourceID   interface{}            `json:"source_id"`
	TargetID   interface{}            `json:"target_id"`
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// LoadFile reads and parses an import document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewImportFileNotFound(path, err)
		}
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return ParseDocument(f)
}

// ParseDocument decodes, validates and normalizes an import document.
// Numbers keep integer precision; property values the store cannot hold
// (maps, lists of maps or mixed types) are stored as compact JSON text.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.NewInputInvalid("document", -1, "body", "is not a valid import document"), err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperrors.NewInputInvalid("document", -1, "body", "has data after the top-level object")
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc.normalize()
	return &doc, nil
}

// Validate checks every descriptor. It runs before any record is applied, so a
// malformed document never writes anything.
func (d *Document) Validate() error {
	for i, n := range d.Nodes {
		if n.Properties == nil {
			return apperrors.NewInputInvalid("node", i, "properties", "is required")
		}
		if !isScalarID(n.Properties["id"]) {
			return apperrors.NewInputInvalid("node", i, "properties.id", "must be a string or number")
		}
	}
	for i, rel := range d.Relationships {
		if !isScalarID(rel.SourceID) {
			return apperrors.NewInputInvalid("relationship", i, "source_id", "must be a string or number")
		}
		if !isScalarID(rel.TargetID) {
			return apperrors.NewInputInvalid("relationship", i, "target_id", "must be a string or number")
		}
		if strings.TrimSpace(rel.Type) == "" {
			return apperrors.NewInputInvalid("relationship", i, "type", "is required")
		}
	}
	return nil
}

// Labels returns the distinct node labels in first-seen order. Nodes without a
// label contribute the store's default label.
func (d *Document) Labels() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, n := range d.Nodes {
		labeled := false
		for _, l := range n.Labels {
			if l = strings.TrimSpace(l); l != "" {
				add(l)
				labeled = true
			}
		}
		if !labeled {
			add(defaultLabel)
		}
	}
	return out
}

func (d *Document) normalize() {
	for i := range d.Nodes {
		d.Nodes[i].Properties = NormalizeProperties(d.Nodes[i].Properties)
	}
	for i := range d.Relationships {
		rel := &d.Relationships[i]
		rel.SourceID = storeValue(rel.SourceID)
		rel.TargetID = storeValue(rel.TargetID)
		rel.Properties = NormalizeProperties(rel.Properties)
	}
}

// NormalizeProperties converts decoded JSON property values (json.Number,
// maps, lists) into values the store accepts. A nil map stays nil.
func NormalizeProperties(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		return nil
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = storeValue(v)
	}
	return out
}

// storeValue converts a decoded JSON value into a property value Neo4j accepts.
func storeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		return jsonText(val)
	case []interface{}:
		items := make([]interface{}, len(val))
		var kind reflect.Type
		for i, item := range val {
			items[i] = storeValue(item)
			switch item.(type) {
			case nil, map[string]interface{}, []interface{}:
				return jsonText(val)
			}
			t := reflect.TypeOf(items[i])
			if kind == nil {
				kind = t
			} else if kind != t {
				return jsonText(val)
			}
		}
		return items
	default:
		return v
	}
}

func jsonText(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func isScalarID(v interface{}) bool {
	switch id := v.(type) {
	case string:
		return id != ""
	case json.Number, int, int64, float64:
		return true
	default:
		return false
	}
}
