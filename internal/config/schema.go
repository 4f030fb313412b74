package config

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-orchestrator/internal/trading"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
)

// ToJSONSchema converts a struct to a JSON schema.
func ToJSONSchema[T any](t T) (string, error) {
	schema := reflector().Reflect(t)

	data, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// RequestSchema returns the indented schema of trading.Request.
func RequestSchema() (string, error) {
	schema := reflector().Reflect(&trading.Request{})
	schema.Title = "orchestrator-request"
	schema.Description = "Request accepted by the execution orchestrator"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			name := t.String()

			switch {
			case strings.HasPrefix(name, "optional.Option[float64]"):
				return &jsonschema.Schema{Type: "number"}
			case strings.HasPrefix(name, "optional.Option[time.Time]"):
				return &jsonschema.Schema{Type: "string", Format: "date-time"}
			case t == reflect.TypeOf(types.Provider("")):
				return &jsonschema.Schema{Type: "string", Enum: providerEnum()}
			}

			return nil
		},
	}
}

func providerEnum() []any {
	providers := types.Providers()
	enum := make([]any, 0, len(providers))

	for _, p := range providers {
		enum = append(enum, string(p))
	}

	return enum
}
