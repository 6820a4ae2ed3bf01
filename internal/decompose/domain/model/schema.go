package model

import "errors"

// SchemaDescription is the root input document for a decomposition run:
// the monolith's collections plus the historical co-change observations.
type SchemaDescription struct {
	Entities []EntityDescription `yaml:"entities" json:"entities"`
	CoChange []CoChangePair      `yaml:"cochange,omitempty" json:"cochange,omitempty"`
}

// EntityDescription describes one collection of the monolith as declared
// in the schema description file.
type EntityDescription struct {
	Name   string             `yaml:"name" json:"name"`
	Fields []FieldDescription `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FieldDescription describes a field of an entity. A field carrying nested
// Fields is an embedded sub-structure; a field carrying References is a
// foreign-key-like link to another entity.
type FieldDescription struct {
	Name        string             `yaml:"name" json:"name"`
	Type        string             `yaml:"type,omitempty" json:"type,omitempty"`
	References  string             `yaml:"references,omitempty" json:"references,omitempty"`
	Cardinality string             `yaml:"cardinality,omitempty" json:"cardinality,omitempty"`
	Fields      []FieldDescription `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// IsEmbedded reports whether the field declares a nested sub-structure.
func (f FieldDescription) IsEmbedded() bool {
	return len(f.Fields) > 0 || f.Type == FieldTypeDocument
}

// IsReference reports whether the field declares a foreign-key-like link.
func (f FieldDescription) IsReference() bool {
	return f.References != ""
}

// CoChangePair records how often two entities were historically modified
// within the same transaction.
type CoChangePair struct {
	A     string `yaml:"a" json:"a"`
	B     string `yaml:"b" json:"b"`
	Count int    `yaml:"count" json:"count"`
}

// Well-known field types in the schema description
const (
	FieldTypeDocument = "document"
	FieldTypeString   = "string"
	FieldTypeNumber   = "number"
)

// Schema description validation errors
var (
	ErrEmptyEntityName = errors.New("entity name is required")
	ErrEmptyFieldName  = errors.New("field name is required")
	ErrDuplicateEntity = errors.New("duplicate entity name")
)
