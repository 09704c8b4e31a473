package objectmapping

import (
	"reflect"
	"strings"
)

const tagName = "bigquery"

// fieldDescriptor resolves one exported struct field to its
// column name. The tag value wins over the Go field name, a
// dash excludes the field entirely.
type fieldDescriptor struct {
	name  string
	index int
	typ   reflect.Type
}

func (e *Engine) fieldDescriptors(
	t reflect.Type,
) ([]fieldDescriptor, error) {

	return e.descriptorCache.GetOrCompute(t, func() ([]fieldDescriptor, error) {
		return resolveFieldDescriptors(t), nil
	})
}

func resolveFieldDescriptors(
	t reflect.Type,
) []fieldDescriptor {

	descriptors := make([]fieldDescriptor, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue
		}

		name := field.Name
		if tag, present := field.Tag.Lookup(tagName); present {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		descriptors = append(descriptors, fieldDescriptor{
			name:  name,
			index: i,
			typ:   field.Type,
		})
	}
	return descriptors
}
