//go:build integration

package adalo

import (
	"context"
	"testing"

	"github.com/Sternrassler/pipeline-components/internal/testutil"
	"github.com/Sternrassler/pipeline-components/pkg/component"
)

// TestAllRecords_RevalidatesPages drains a collection twice. The second
// session revalidates every page and is served from Redis on 304.
func TestAllRecords_RevalidatesPages(t *testing.T) {
	redisClient := testutil.SetupRedis(t)

	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetCollection(collectionRoute, testutil.Records(250), 100)

	app := newTestApp(t, mock, component.Runtime{Redis: redisClient})
	ctx := context.Background()

	first, err := app.AllRecords(ctx, "t_people")
	if err != nil {
		t.Fatalf("first AllRecords() error = %v", err)
	}
	if got := mock.GetConditionalCount(); got != 0 {
		t.Errorf("conditional requests after first session = %d, want 0", got)
	}

	second, err := app.AllRecords(ctx, "t_people")
	if err != nil {
		t.Fatalf("second AllRecords() error = %v", err)
	}

	if got := mock.GetRequestCount(); got != 6 {
		t.Errorf("requests = %d, want 6", got)
	}
	if got := mock.GetConditionalCount(); got != 3 {
		t.Errorf("conditional requests = %d, want 3", got)
	}

	if len(second) != len(first) || len(second) != 250 {
		t.Fatalf("len(second) = %d, len(first) = %d, want 250", len(second), len(first))
	}
	for i := range first {
		if first[i]["id"] != second[i]["id"] {
			t.Errorf("record %d differs: %v != %v", i, first[i]["id"], second[i]["id"])
			break
		}
	}
}

// TestAllRecords_CacheIsPerCredential checks that another API key never
// revalidates against entries stored for the first.
func TestAllRecords_CacheIsPerCredential(t *testing.T) {
	redisClient := testutil.SetupRedis(t)

	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetCollection(collectionRoute, testutil.Records(10), 100)

	rt := component.Runtime{Redis: redisClient}
	ctx := context.Background()

	for _, key := range []string{"key-a", "key-b"} {
		app, err := New(Auth{AppID: "app1", APIKey: key, BaseURL: mock.URL()}, rt)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := app.AllRecords(ctx, "t_people"); err != nil {
			t.Fatalf("AllRecords(%s) error = %v", key, err)
		}
	}

	if got := mock.GetConditionalCount(); got != 0 {
		t.Errorf("conditional requests = %d, want 0", got)
	}
}
