package features

import (
	"fmt"
)

// SchemaField is one named feature in a schema.
type SchemaField struct {
	Name    string
	Feature IFeature
}

// Schema is a dataset's declared feature schema. Field order is the
// declaration order from the dataset's info file so that walking the
// schema is deterministic.
type Schema struct {
	fields []SchemaField
	byName map[string]int
}

func NewSchema() *Schema {
	return &Schema{
		fields: []SchemaField{},
		byName: make(map[string]int),
	}
}

func (obj *Schema) AddFeature(name string, feature IFeature) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("%w| feature name is required", ErrSchemaInvalid)
	}
	if feature == nil {
		return nil, fmt.Errorf("%w| feature %s has no descriptor", ErrSchemaInvalid, name)
	}
	if _, exists := obj.byName[name]; exists {
		return nil, fmt.Errorf("%w| duplicate feature %s", ErrSchemaInvalid, name)
	}
	obj.byName[name] = len(obj.fields)
	obj.fields = append(obj.fields, SchemaField{Name: name, Feature: feature})
	return obj, nil
}

func (obj *Schema) Fields() []SchemaField {
	return obj.fields
}

func (obj *Schema) NumFields() int {
	return len(obj.fields)
}

func (obj *Schema) HasFeature(name string) bool {
	_, exists := obj.byName[name]
	return exists
}

func (obj *Schema) GetFeature(name string) (IFeature, error) {
	idx, exists := obj.byName[name]
	if !exists {
		return nil, ErrFeatureNotFound
	}
	return obj.fields[idx].Feature, nil
}
