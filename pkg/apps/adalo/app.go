// Package adalo integrates the Adalo collections API.
//
// Records live in collections of an Adalo app. Listing a collection is
// offset-paginated: every page carries the next offset and the collection
// total, which AllRecords uses to drain the collection.
package adalo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sternrassler/pipeline-components/pkg/client"
	"github.com/Sternrassler/pipeline-components/pkg/component"
	"github.com/Sternrassler/pipeline-components/pkg/pagination"
)

// Slug identifies the app.
const Slug = "adalo"

// DefaultBaseURL is the public Adalo API.
const DefaultBaseURL = "https://api.adalo.com/v0"

// PageSize is the number of records requested per page.
const PageSize = 100

var recordFields = pagination.FieldSpec{
	Items:  "records",
	Offset: "offset",
	Total:  "total",
}

// Record is one collection record. Field names depend on the collection.
type Record map[string]any

// Auth holds the connected Adalo account.
type Auth struct {
	AppID   string `json:"app_id" validate:"required"`
	APIKey  string `json:"api_key" validate:"required"`
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`
}

// App is an authenticated Adalo API client scoped to one Adalo app.
type App struct {
	client   *client.Client
	maxPages int
}

// New creates an App.
func New(auth Auth, rt component.Runtime) (*App, error) {
	baseURL := auth.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cfg := client.DefaultConfig(Slug, baseURL+"/apps/"+url.PathEscape(auth.AppID))
	cfg.Headers["Authorization"] = "Bearer " + auth.APIKey
	cfg.Redis = rt.Redis
	if rt.Timeout > 0 {
		cfg.Timeout = rt.Timeout
	}
	if rt.UserAgent != "" {
		cfg.UserAgent = rt.UserAgent
	}

	c, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create adalo client: %w", err)
	}

	return &App{client: c, maxPages: rt.MaxPages}, nil
}

// FromStep creates an App from the step auth and runtime.
func FromStep(step *component.Step) (*App, error) {
	var auth Auth
	if err := step.BindAuth(&auth); err != nil {
		return nil, err
	}
	return New(auth, step.Runtime)
}

func collectionPath(collectionID string) string {
	return "/collections/" + url.PathEscape(collectionID)
}

func recordPath(collectionID, recordID string) string {
	return collectionPath(collectionID) + "/" + url.PathEscape(recordID)
}

// RecordsPage fetches the page of a collection starting at offset.
func (a *App) RecordsPage(ctx context.Context, collectionID string, offset int) (pagination.Page[Record], error) {
	body, err := a.client.Raw(ctx, client.Request{
		Method: http.MethodGet,
		Path:   collectionPath(collectionID),
		Query: url.Values{
			"offset": []string{strconv.Itoa(offset)},
			"limit":  []string{strconv.Itoa(PageSize)},
		},
	})
	if err != nil {
		return pagination.Page[Record]{}, err
	}
	return pagination.JSONPage[Record](body, recordFields, offset)
}

// AllRecords returns every record of a collection.
func (a *App) AllRecords(ctx context.Context, collectionID string) ([]Record, error) {
	cfg := pagination.DefaultConfig()
	cfg.Resource = "adalo_records"
	if a.maxPages > 0 {
		cfg.MaxPages = a.maxPages
	}

	fetcher := pagination.FetcherFunc[Record](func(ctx context.Context, offset int) (pagination.Page[Record], error) {
		return a.RecordsPage(ctx, collectionID, offset)
	})
	return pagination.All[Record, Record](ctx, fetcher, pagination.Identity[Record], cfg)
}

// GetRecord fetches one record.
func (a *App) GetRecord(ctx context.Context, collectionID, recordID string) (Record, error) {
	var record Record
	err := a.client.DoJSON(ctx, client.Request{
		Method: http.MethodGet,
		Path:   recordPath(collectionID, recordID),
	}, &record)
	return record, err
}

// CreateRecord creates a record from fields and returns it.
func (a *App) CreateRecord(ctx context.Context, collectionID string, fields map[string]any) (Record, error) {
	var record Record
	err := a.client.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   collectionPath(collectionID),
		Body:   fields,
	}, &record)
	return record, err
}

// UpdateRecord overwrites the given fields of a record and returns it.
func (a *App) UpdateRecord(ctx context.Context, collectionID, recordID string, fields map[string]any) (Record, error) {
	var record Record
	err := a.client.DoJSON(ctx, client.Request{
		Method: http.MethodPut,
		Path:   recordPath(collectionID, recordID),
		Body:   fields,
	}, &record)
	return record, err
}

// DeleteRecord removes a record.
func (a *App) DeleteRecord(ctx context.Context, collectionID, recordID string) error {
	return a.client.DoJSON(ctx, client.Request{
		Method: http.MethodDelete,
		Path:   recordPath(collectionID, recordID),
	}, nil)
}
