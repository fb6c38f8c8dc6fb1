package configmanager

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/invopop/jsonschema"
)

const (
	schemaTitle       = "obsail Configuration"
	schemaDescription = "JSON schema for obsail runtime configuration (obsail.yaml)"
	durationPattern   = "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"
)

// Schema reflects the JSON schema of obsail.yaml.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    typeMapper,
	}

	schema := reflector.Reflect(&v1alpha1.Config{})
	schema.ID = ""
	schema.Title = schemaTitle
	schema.Description = schemaDescription

	// Every field is optional and falls back to its default.
	walkSchema(schema, func(s *jsonschema.Schema) {
		s.Required = nil
	})

	return schema
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	out, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config schema: %w", err)
	}

	return out, nil
}

func walkSchema(schema *jsonschema.Schema, fn func(*jsonschema.Schema)) {
	if schema == nil {
		return
	}

	fn(schema)

	if schema.Properties != nil {
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			walkSchema(pair.Value, fn)
		}
	}

	walkSchema(schema.Items, fn)
	walkSchema(schema.AdditionalProperties, fn)
}

// typeMapper renders enum types from their ValidValues and durations as Go duration strings.
func typeMapper(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeFor[time.Duration]() {
		return &jsonschema.Schema{Type: "string", Pattern: durationPattern}
	}

	enumValuerType := reflect.TypeFor[v1alpha1.EnumValuer]()
	if !reflect.PointerTo(t).Implements(enumValuerType) {
		return nil
	}

	valuer, ok := reflect.New(t).Interface().(v1alpha1.EnumValuer)
	if !ok {
		return nil
	}

	values := valuer.ValidValues()
	enum := make([]any, len(values))

	for i, value := range values {
		enum[i] = value
	}

	return &jsonschema.Schema{Type: "string", Enum: enum}
}
