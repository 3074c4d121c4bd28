package adalo

import (
	"context"
	"fmt"

	"github.com/Sternrassler/pipeline-components/pkg/component"
)

const docsLink = "https://help.adalo.com/integrations/the-adalo-api/collections"

// Actions returns all Adalo actions.
func Actions() []component.Component {
	return []component.Component{
		GetRecords{},
		GetRecord{},
		CreateRecord{},
		UpdateRecord{},
	}
}

type collectionProps struct {
	CollectionID string `json:"collectionId" validate:"required"`
}

type recordProps struct {
	CollectionID string `json:"collectionId" validate:"required"`
	RecordID     string `json:"recordId" validate:"required"`
}

type fieldsProps struct {
	CollectionID string         `json:"collectionId" validate:"required"`
	RecordID     string         `json:"recordId"`
	Fields       map[string]any `json:"fields" validate:"required"`
}

// GetRecords drains a collection.
type GetRecords struct{}

func (GetRecords) Metadata() component.Metadata {
	return component.Metadata{
		Key:         "adalo-get-records",
		Name:        "Get Records",
		Description: fmt.Sprintf("Get all records from a collection. [See docs here](%s)", docsLink),
		Version:     "0.0.1",
		Type:        component.TypeAction,
	}
}

func (GetRecords) Props() []component.PropDefinition {
	return []component.PropDefinition{AppProp(), CollectionIDProp()}
}

func (GetRecords) Run(ctx context.Context, step *component.Step) (any, error) {
	var props collectionProps
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	records, err := app.AllRecords(ctx, props.CollectionID)
	if err != nil {
		return nil, err
	}

	step.Export(component.SummaryExport, fmt.Sprintf("Successfully retrieved %d records", len(records)))
	return records, nil
}

// GetRecord fetches a single record.
type GetRecord struct{}

func (GetRecord) Metadata() component.Metadata {
	return component.Metadata{
		Key:         "adalo-get-record",
		Name:        "Get Record",
		Description: fmt.Sprintf("Get a record from a collection. [See docs here](%s)", docsLink),
		Version:     "0.0.1",
		Type:        component.TypeAction,
	}
}

func (GetRecord) Props() []component.PropDefinition {
	return []component.PropDefinition{AppProp(), CollectionIDProp(), RecordIDProp()}
}

func (GetRecord) Run(ctx context.Context, step *component.Step) (any, error) {
	var props recordProps
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	record, err := app.GetRecord(ctx, props.CollectionID, props.RecordID)
	if err != nil {
		return nil, err
	}

	step.Export(component.SummaryExport, fmt.Sprintf("Successfully retrieved record %s", props.RecordID))
	return record, nil
}

// CreateRecord adds a record to a collection.
type CreateRecord struct{}

func (CreateRecord) Metadata() component.Metadata {
	return component.Metadata{
		Key:         "adalo-create-record",
		Name:        "Create Record",
		Description: fmt.Sprintf("Create a record in a collection. [See docs here](%s)", docsLink),
		Version:     "0.0.1",
		Type:        component.TypeAction,
	}
}

func (CreateRecord) Props() []component.PropDefinition {
	return []component.PropDefinition{AppProp(), CollectionIDProp(), FieldsProp()}
}

func (CreateRecord) Run(ctx context.Context, step *component.Step) (any, error) {
	var props fieldsProps
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	record, err := app.CreateRecord(ctx, props.CollectionID, props.Fields)
	if err != nil {
		return nil, err
	}

	step.Export(component.SummaryExport, "Successfully created record")
	return record, nil
}

// UpdateRecord changes fields of an existing record.
type UpdateRecord struct{}

func (UpdateRecord) Metadata() component.Metadata {
	return component.Metadata{
		Key:         "adalo-update-record",
		Name:        "Update Record",
		Description: fmt.Sprintf("Update a record in a collection. [See docs here](%s)", docsLink),
		Version:     "0.0.1",
		Type:        component.TypeAction,
	}
}

func (UpdateRecord) Props() []component.PropDefinition {
	return []component.PropDefinition{AppProp(), CollectionIDProp(), RecordIDProp(), FieldsProp()}
}

func (UpdateRecord) Run(ctx context.Context, step *component.Step) (any, error) {
	var props fieldsProps
	if err := step.BindProps(&props); err != nil {
		return nil, err
	}
	if props.RecordID == "" {
		return nil, fmt.Errorf("%w: recordId: required", component.ErrInvalidProps)
	}

	app, err := FromStep(step)
	if err != nil {
		return nil, err
	}

	record, err := app.UpdateRecord(ctx, props.CollectionID, props.RecordID, props.Fields)
	if err != nil {
		return nil, err
	}

	step.Export(component.SummaryExport, fmt.Sprintf("Successfully updated record %s", props.RecordID))
	return record, nil
}
