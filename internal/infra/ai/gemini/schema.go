package gemini

import (
	"google.golang.org/genai"

	"github.com/bryanwahyu/idea-coach/internal/infra/ai/prompt"
)

var kinds = map[prompt.Kind]genai.Type{
	prompt.Object:  genai.TypeObject,
	prompt.Array:   genai.TypeArray,
	prompt.String:  genai.TypeString,
	prompt.Integer: genai.TypeInteger,
}

// toSchema translates the provider-neutral field tree into a genai.Schema.
func toSchema(f prompt.Field) *genai.Schema {
	s := &genai.Schema{
		Type:        kinds[f.Kind],
		Description: f.Description,
		Minimum:     f.Minimum,
		Maximum:     f.Maximum,
	}
	if f.Items != nil {
		s.Items = toSchema(*f.Items)
	}
	if len(f.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(f.Properties))
		for _, p := range f.Properties {
			s.Properties[p.Name] = toSchema(p.Field)
			s.PropertyOrdering = append(s.PropertyOrdering, p.Name)
		}
		s.Required = f.Required()
	}
	return s
}

// ResponseSchema is the analysis schema sent with every request.
var ResponseSchema = toSchema(prompt.AnalysisSchema)
