package openai

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/idea-coach/internal/infra/ai/prompt"
)

var dataTypes = map[prompt.Kind]jsonschema.DataType{
	prompt.Object:  jsonschema.Object,
	prompt.Array:   jsonschema.Array,
	prompt.String:  jsonschema.String,
	prompt.Integer: jsonschema.Integer,
}

// toDefinition translates the provider-neutral field tree into a JSON schema definition.
func toDefinition(f prompt.Field) jsonschema.Definition {
	d := jsonschema.Definition{
		Type:        dataTypes[f.Kind],
		Description: f.Description,
	}
	if f.Items != nil {
		items := toDefinition(*f.Items)
		d.Items = &items
	}
	if f.Kind == prompt.Object {
		d.Properties = make(map[string]jsonschema.Definition, len(f.Properties))
		for _, p := range f.Properties {
			d.Properties[p.Name] = toDefinition(p.Field)
		}
		d.Required = f.Required()
		d.AdditionalProperties = false
	}
	return d
}

// responseSchema is encoded once; the request only carries the bytes.
var responseSchema = mustEncode(toDefinition(prompt.AnalysisSchema))

func mustEncode(d jsonschema.Definition) json.RawMessage {
	b, err := json.Marshal(&d)
	if err != nil {
		panic(err)
	}
	return b
}
