package prompt

// Kind is a provider-neutral field type.
type Kind string

const (
	Object  Kind = "object"
	Array   Kind = "array"
	String  Kind = "string"
	Integer Kind = "integer"
)

// Field describes one node of the response schema. Providers translate the tree
// into their own schema types.
type Field struct {
	Kind        Kind
	Description string
	Properties  []Property
	Items       *Field
	Minimum     *float64
	Maximum     *float64
}

// Property is a named, ordered child of an object field.
type Property struct {
	Name     string
	Required bool
	Field    Field
}

// Required lists the names of required properties in declaration order.
func (f Field) Required() []string {
	var out []string
	for _, p := range f.Properties {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

func bound(v float64) *float64 { return &v }

func str(desc string) Field { return Field{Kind: String, Description: desc} }

func req(name string, f Field) Property { return Property{Name: name, Required: true, Field: f} }

// AnalysisSchema is the structured output contract for an idea analysis.
var AnalysisSchema = Field{
	Kind: Object,
	Properties: []Property{
		req("executiveSummary", str("A 2-3 sentence executive summary on the overall viability of the business idea. Be direct and honest.")),
		req("whatWorks", Field{
			Kind:        Array,
			Description: "3-5 of the strongest aspects, core strengths, or biggest opportunities for the idea.",
			Items:       &Field{Kind: String},
		}),
		req("criticalIssues", Field{
			Kind:        Array,
			Description: "3-5 major concerns, obstacles, or fatal flaws. Be brutally honest and specific.",
			Items:       &Field{Kind: String},
		}),
		req("marketRealityCheck", Field{
			Kind:        Object,
			Description: "An assessment of the market conditions.",
			Properties: []Property{
				req("competition", str("Analysis of the direct and indirect competitive landscape and the idea's differentiation.")),
				req("demand", str("Assessment of the target market's demand, pain point severity, and willingness to pay.")),
				req("timing", str("Whether the market timing is right for this idea (technology maturity, user readiness).")),
			},
		}),
		req("technicalFeasibility", Field{
			Kind:        Object,
			Description: "An analysis of the technical requirements and challenges for an AI/SaaS product.",
			Properties: []Property{
				req("complexity", str("Development complexity, required tech stack, and potential AI/ML challenges.")),
				req("resources", str("Resources (skills, data, infrastructure, APIs) needed to build an MVP.")),
			},
		}),
		req("revenueProbability", Field{
			Kind:        Object,
			Description: "A realistic probability of generating meaningful revenue.",
			Properties: []Property{
				req("percentage", Field{
					Kind:        Integer,
					Description: "A percentage (0-100) chance of generating $10K+ monthly recurring revenue within 18 months.",
					Minimum:     bound(0),
					Maximum:     bound(100),
				}),
				req("justification", str("A brief, honest explanation for the percentage, based on market, execution difficulty, and monetization potential.")),
			},
		}),
		req("nextSteps", Field{
			Kind:        Array,
			Description: "5-7 specific, actionable next steps, ranked by priority.",
			Items: &Field{
				Kind: Object,
				Properties: []Property{
					req("priority", Field{Kind: Integer, Description: "The priority number of the step (1 being highest)."}),
					req("action", str("A concise title for the action item (e.g., 'Validate Customer Pain Point').")),
					req("details", str("A brief, concrete description of what to do for this step.")),
				},
			},
		}),
		req("successMetrics", Field{
			Kind:        Array,
			Description: "Key Performance Indicators (KPIs) to track progress and validate core assumptions.",
			Items: &Field{
				Kind: Object,
				Properties: []Property{
					req("metric", str("The name of the KPI (e.g., 'User Activation Rate').")),
					req("description", str("Why this metric matters for this specific business and how to measure it.")),
				},
			},
		}),
	},
}
