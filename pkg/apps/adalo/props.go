package adalo

import "github.com/Sternrassler/pipeline-components/pkg/component"

// AppProp is the connected Adalo account.
func AppProp() component.PropDefinition {
	return component.PropDefinition{
		Name:  "adalo",
		Type:  component.PropApp,
		Label: "Adalo",
		App:   Slug,
	}
}

// CollectionIDProp selects the collection.
func CollectionIDProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "collectionId",
		Type:        component.PropString,
		Label:       "Collection ID",
		Description: "The ID of the collection, shown in the API docs of your Adalo app (e.g. `t_1a2b3c`).",
	}
}

// RecordIDProp selects a record.
func RecordIDProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "recordId",
		Type:        component.PropString,
		Label:       "Record ID",
		Description: "The ID of the record.",
	}
}

// FieldsProp holds record field values.
func FieldsProp() component.PropDefinition {
	return component.PropDefinition{
		Name:        "fields",
		Type:        component.PropObject,
		Label:       "Fields",
		Description: "Record field names mapped to their values.",
	}
}
