package model

import "errors"

// Cardinality describes how many target records a reference points at.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// IsValid reports whether the cardinality is a known value.
func (c Cardinality) IsValid() bool {
	return c == CardinalityOne || c == CardinalityMany
}

// Entity represents a named collection of the monolith with its fields and
// outgoing references to other entities.
type Entity struct {
	Name       string      `yaml:"name" json:"name"`
	Fields     []Field     `yaml:"fields,omitempty" json:"fields,omitempty"`
	References []Reference `yaml:"references,omitempty" json:"references,omitempty"`
}

// Field represents a single field of an entity. EmbeddedEntity is set when
// the field physically duplicates another entity's document inside this one.
type Field struct {
	Name           string `yaml:"name" json:"name"`
	Type           string `yaml:"type,omitempty" json:"type,omitempty"`
	EmbeddedEntity string `yaml:"embeddedEntity,omitempty" json:"embeddedEntity,omitempty"`
}

// Reference is a directed edge between two entities. Embedded=true means
// the target's payload is duplicated inside the source document; false
// means the source stores only the target's identifier (a lightweight link).
type Reference struct {
	SourceEntity string      `yaml:"sourceEntity" json:"sourceEntity"`
	TargetEntity string      `yaml:"targetEntity" json:"targetEntity"`
	FieldName    string      `yaml:"fieldName" json:"fieldName"`
	Cardinality  Cardinality `yaml:"cardinality" json:"cardinality"`
	Embedded     bool        `yaml:"embedded" json:"embedded"`
}

// FieldByName returns the field with the given name, or nil.
func (e *Entity) FieldByName(name string) *Field {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// HasField reports whether the entity declares a field with the given name.
func (e *Entity) HasField(name string) bool {
	return e.FieldByName(name) != nil
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	clone := &Entity{Name: e.Name}
	if e.Fields != nil {
		clone.Fields = make([]Field, len(e.Fields))
		copy(clone.Fields, e.Fields)
	}
	if e.References != nil {
		clone.References = make([]Reference, len(e.References))
		copy(clone.References, e.References)
	}
	return clone
}

// Equal reports whether two entities have identical names, fields and
// references, in order.
func (e *Entity) Equal(other *Entity) bool {
	if other == nil || e.Name != other.Name {
		return false
	}
	if len(e.Fields) != len(other.Fields) || len(e.References) != len(other.References) {
		return false
	}
	for i := range e.Fields {
		if e.Fields[i] != other.Fields[i] {
			return false
		}
	}
	for i := range e.References {
		if e.References[i] != other.References[i] {
			return false
		}
	}
	return true
}

// Entity validation errors
var (
	ErrInvalidCardinality = errors.New("invalid reference cardinality")
)
