package agent

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

func MustSchemaFor[T any]() map[string]any {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

// SchemaFor derives the JSON schema for T as a plain map, the form
// providers embed in requests and Validate checks responses against.
func SchemaFor[T any]() (map[string]any, error) {
	schema, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, err
	}
	return schemaToMap(schema)
}

func schemaToMap(schema any) (map[string]any, error) {
	m := map[string]any{}
	if schema != nil {
		buf, err := json.Marshal(schema)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(buf, &m); err != nil {
			return nil, err
		}
	}

	// Some providers reject schemas without an explicit object type.
	if m["type"] == nil {
		m["type"] = "object"
	}
	if m["properties"] == nil {
		m["properties"] = map[string]any{}
	}

	return m, nil
}

// ValidateAndDecode checks raw against schema and decodes it into out.
// A failure of either step is a schema violation, not a transport
// error: the model answered, just not in the agreed shape.
func ValidateAndDecode(agentID string, schema map[string]any, raw []byte, out any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return &SchemaError{AgentID: agentID, Detail: err.Error()}
	}
	if !result.Valid() {
		detail := "schema violation"
		if errs := result.Errors(); len(errs) > 0 {
			detail = errs[0].String()
		}
		return &SchemaError{AgentID: agentID, Detail: detail}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &SchemaError{AgentID: agentID, Detail: fmt.Sprintf("decode: %v", err)}
	}
	return nil
}
