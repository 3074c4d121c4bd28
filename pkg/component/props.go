package component

import "context"

// PropType is the input type of a property.
type PropType string

const (
	PropString      PropType = "string"
	PropStringSlice PropType = "string[]"
	PropInteger     PropType = "integer"
	PropBoolean     PropType = "boolean"
	PropObject      PropType = "object"
	PropApp         PropType = "app"
)

// Option is one choice offered for a property.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// OptionsFunc loads the options of a property, typically from the app API
// using the step's auth.
type OptionsFunc func(ctx context.Context, step *Step) ([]Option, error)

// PropDefinition declares a configurable property of a component.
type PropDefinition struct {
	Name        string   `json:"name"`
	Type        PropType `json:"type"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Optional    bool     `json:"optional,omitempty"`

	// App is the app slug for PropApp properties.
	App string `json:"app,omitempty"`

	// Options is set for properties with dynamic choices.
	Options OptionsFunc `json:"-"`
}

// HasOptions reports whether the property offers dynamic options.
func (p PropDefinition) HasOptions() bool {
	return p.Options != nil
}

// FindProp returns the property with the given name.
func FindProp(c Component, name string) (PropDefinition, bool) {
	for _, p := range c.Props() {
		if p.Name == name {
			return p, true
		}
	}
	return PropDefinition{}, false
}

// missingProps lists required, non-app props absent from values.
func missingProps(defs []PropDefinition, values map[string]any) []string {
	var missing []string
	for _, def := range defs {
		if def.Optional || def.Type == PropApp {
			continue
		}
		v, ok := values[def.Name]
		if !ok || v == nil {
			missing = append(missing, def.Name)
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			missing = append(missing, def.Name)
		}
	}
	return missing
}
