package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/invopop/jsonschema"
)

// InputSchema reflects the JSON schema of the arguments step accepts.
func InputSchema(step orchestrator.Step) (map[string]any, error) {
	args, err := orchestrator.ArgsOf(step)
	if err != nil {
		return nil, fmt.Errorf("input schema: %w", err)
	}

	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(args)
	schema.Version = ""
	schema.ID = ""

	// The MCP SDK wants a plain JSON object, so round-trip through encoding/json.
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", step, err)
	}

	var decoded map[string]any

	err = json.Unmarshal(raw, &decoded)
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s schema: %w", step, err)
	}

	if _, ok := decoded["properties"]; !ok {
		decoded["properties"] = map[string]any{}
	}

	return decoded, nil
}
