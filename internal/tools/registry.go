// Package tools defines the CV tool catalog and the dispatcher that
// resolves tool names to behavior and normalizes every outcome into a
// uniform result envelope.
package tools

// Tool names matched case-sensitively by the dispatcher.
const (
	ToolGetPersonalInfo   = "get_personal_info"
	ToolGetWorkExperience = "get_work_experience"
	ToolGetEducation      = "get_education"
	ToolGetSkills         = "get_skills"
	ToolSearchCV          = "search_cv"
	ToolSendEmail         = "send_email"
)

// Definition defines metadata for a registered tool. The catalog is static:
// defined once at process start and never mutated.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ReadOnly    bool           `json:"read_only"`
	Parameters  map[string]any `json:"parameters"`
}

// toolRegistry holds all tool definitions in catalog order.
var toolRegistry = []Definition{
	{
		Name:        ToolGetPersonalInfo,
		Description: "Retrieve the personal details from the CV: name, contact information, and links",
		ReadOnly:    true,
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        ToolGetWorkExperience,
		Description: "Retrieve the work experience entries from the CV in document order",
		ReadOnly:    true,
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        ToolGetEducation,
		Description: "Retrieve the education entries from the CV in document order",
		ReadOnly:    true,
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        ToolGetSkills,
		Description: "Retrieve the list of skills from the CV",
		ReadOnly:    true,
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        ToolSearchCV,
		Description: "Search the CV for a case-insensitive text fragment across personal details, experience, education, skills, and raw text",
		ReadOnly:    true,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Text to look for; must not be blank",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        ToolSendEmail,
		Description: "Send a plain-text email through the configured notification channel",
		ReadOnly:    false,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"recipient": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Destination email address",
				},
				"subject": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Subject line",
				},
				"body": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Plain-text message body",
				},
			},
			"required": []string{"recipient", "subject", "body"},
		},
	},
}

var toolsByName = func() map[string]Definition {
	byName := make(map[string]Definition, len(toolRegistry))
	for _, def := range toolRegistry {
		byName[def.Name] = def
	}
	return byName
}()

// Definitions returns the static tool catalog in registration order. The
// catalog is identical before and after initialization completes, so
// transports can advertise capabilities even in degraded mode.
func Definitions() []Definition {
	defs := make([]Definition, len(toolRegistry))
	copy(defs, toolRegistry)
	return defs
}

// Lookup resolves a tool name against the registry.
func Lookup(name string) (Definition, bool) {
	def, ok := toolsByName[name]
	return def, ok
}
