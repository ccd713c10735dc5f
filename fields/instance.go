package fields

import "sort"

// Instance is one converted record: feature name to converted field.
// Each instance is built fresh per raw entry and owned by its consumer.
type Instance map[string]IField

func NewInstance() Instance {
	return make(Instance)
}

func (obj Instance) HasField(name string) bool {
	_, exists := obj[name]
	return exists
}

// FieldNames returns the instance's field names in sorted order so
// callers iterating an instance get a stable order.
func (obj Instance) FieldNames() []string {
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
