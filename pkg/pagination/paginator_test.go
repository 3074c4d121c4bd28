package pagination

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

// scriptedFetcher serves pre-built pages and records the requested offsets.
type scriptedFetcher struct {
	pages   []Page[int]
	failAt  int // 1-based call number that fails (0 = never)
	failErr error
	offsets []int
}

func (f *scriptedFetcher) FetchPage(_ context.Context, offset int) (Page[int], error) {
	f.offsets = append(f.offsets, offset)
	call := len(f.offsets)
	if f.failAt > 0 && call == f.failAt {
		return Page[int]{}, f.failErr
	}
	if call > len(f.pages) {
		return f.pages[len(f.pages)-1], nil
	}
	return f.pages[call-1], nil
}

// pagesOf splits total sequential items into pages of size n, setting the
// next offset and total like a well-behaved server.
func pagesOf(total, n int) []Page[int] {
	var pages []Page[int]
	offset := 0
	for {
		end := offset + n
		if end > total {
			end = total
		}
		var items []int
		for i := offset; i < end; i++ {
			items = append(items, i)
		}
		pages = append(pages, Page[int]{Items: items, Offset: end, Total: total})
		offset = end
		if offset >= total {
			return pages
		}
	}
}

func TestAll_PageScenarios(t *testing.T) {
	tests := []struct {
		name         string
		pages        []Page[int]
		wantItems    int
		wantRequests int
		wantOffsets  []int
	}{
		{
			name:         "page size 2 total 5",
			pages:        pagesOf(5, 2),
			wantItems:    5,
			wantRequests: 3,
			wantOffsets:  []int{0, 2, 4},
		},
		{
			name:         "single page covers total",
			pages:        []Page[int]{{Items: []int{1, 2, 3}, Offset: 3, Total: 3}},
			wantItems:    3,
			wantRequests: 1,
			wantOffsets:  []int{0},
		},
		{
			name:         "first page reports smaller total",
			pages:        []Page[int]{{Items: []int{1, 2, 3}, Offset: 3, Total: 2}},
			wantItems:    3,
			wantRequests: 1,
			wantOffsets:  []int{0},
		},
		{
			name:         "empty collection",
			pages:        []Page[int]{{Items: []int{}, Offset: 0, Total: 0}},
			wantItems:    0,
			wantRequests: 1,
			wantOffsets:  []int{0},
		},
		{
			name: "variable page sizes",
			pages: []Page[int]{
				{Items: []int{0}, Offset: 1, Total: 6},
				{Items: []int{1, 2, 3}, Offset: 4, Total: 6},
				{Items: []int{4, 5}, Offset: 6, Total: 6},
			},
			wantItems:    6,
			wantRequests: 3,
			wantOffsets:  []int{0, 1, 4},
		},
		{
			name: "server offsets are trusted",
			pages: []Page[int]{
				{Items: []int{0, 1}, Offset: 10, Total: 4},
				{Items: []int{2, 3}, Offset: 20, Total: 4},
			},
			wantItems:    4,
			wantRequests: 2,
			wantOffsets:  []int{0, 10},
		},
		{
			name: "total grows during session",
			pages: []Page[int]{
				{Items: []int{0, 1}, Offset: 2, Total: 3},
				{Items: []int{2, 3}, Offset: 4, Total: 5},
				{Items: []int{4}, Offset: 5, Total: 5},
			},
			wantItems:    5,
			wantRequests: 3,
			wantOffsets:  []int{0, 2, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &scriptedFetcher{pages: tt.pages}

			got, err := All[int, int](context.Background(), fetcher, Identity[int], DefaultConfig())
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}

			if len(got) != tt.wantItems {
				t.Errorf("len(items) = %d, want %d", len(got), tt.wantItems)
			}
			if len(fetcher.offsets) != tt.wantRequests {
				t.Errorf("requests = %d, want %d", len(fetcher.offsets), tt.wantRequests)
			}
			for i, want := range tt.wantOffsets {
				if i >= len(fetcher.offsets) {
					break
				}
				if fetcher.offsets[i] != want {
					t.Errorf("request %d offset = %d, want %d", i, fetcher.offsets[i], want)
				}
			}
		})
	}
}

func TestAll_PreservesPageOrder(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[int]{
		{Items: []int{5, 3}, Offset: 2, Total: 5},
		{Items: []int{9, 1}, Offset: 4, Total: 5},
		{Items: []int{7}, Offset: 5, Total: 5},
	}}

	got, err := All[int, int](context.Background(), fetcher, Identity[int], DefaultConfig())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	want := []int{5, 3, 9, 1, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}

func TestAll_MapperAppliedOnceInOrder(t *testing.T) {
	fetcher := &scriptedFetcher{pages: pagesOf(5, 2)}

	var seen []int
	mapper := func(r int) string {
		seen = append(seen, r)
		return "item-" + strconv.Itoa(r)
	}

	got, err := All[int, string](context.Background(), fetcher, mapper, DefaultConfig())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	if len(seen) != 5 {
		t.Fatalf("mapper calls = %d, want 5", len(seen))
	}
	for i, r := range seen {
		if r != i {
			t.Errorf("mapper call %d got %d, want %d", i, r, i)
		}
		if got[i] != "item-"+strconv.Itoa(i) {
			t.Errorf("items[%d] = %q, want %q", i, got[i], "item-"+strconv.Itoa(i))
		}
	}
}

func TestAll_EmptyResultIsNotNil(t *testing.T) {
	fetcher := &scriptedFetcher{pages: []Page[int]{{Total: 0}}}

	got, err := All[int, int](context.Background(), fetcher, Identity[int], DefaultConfig())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if got == nil {
		t.Error("All() returned nil slice for empty collection")
	}
}

func TestAll_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	fetcher := &scriptedFetcher{pages: pagesOf(10, 2), failAt: 3, failErr: boom}

	got, err := All[int, int](context.Background(), fetcher, Identity[int], DefaultConfig())
	if !errors.Is(err, boom) {
		t.Fatalf("All() error = %v, want %v", err, boom)
	}
	if got != nil {
		t.Errorf("All() returned %d items on failure, want nil", len(got))
	}
	if len(fetcher.offsets) != 3 {
		t.Errorf("requests = %d, want 3", len(fetcher.offsets))
	}
}

func TestAll_PageLimit(t *testing.T) {
	// total never reached: every page is empty
	fetcher := &scriptedFetcher{pages: []Page[int]{{Items: []int{}, Offset: 0, Total: 3}}}

	cfg := DefaultConfig()
	cfg.MaxPages = 4

	_, err := All[int, int](context.Background(), fetcher, Identity[int], cfg)
	if !errors.Is(err, ErrBoundExceeded) {
		t.Fatalf("All() error = %v, want ErrBoundExceeded", err)
	}
	if len(fetcher.offsets) != 4 {
		t.Errorf("requests = %d, want 4", len(fetcher.offsets))
	}
}

func TestAll_ItemLimit(t *testing.T) {
	fetcher := &scriptedFetcher{pages: pagesOf(10, 4)}

	cfg := DefaultConfig()
	cfg.MaxItems = 6

	_, err := All[int, int](context.Background(), fetcher, Identity[int], cfg)
	if !errors.Is(err, ErrBoundExceeded) {
		t.Fatalf("All() error = %v, want ErrBoundExceeded", err)
	}
	if len(fetcher.offsets) != 2 {
		t.Errorf("requests = %d, want 2", len(fetcher.offsets))
	}
}

func TestAll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	fetcher := FetcherFunc[int](func(_ context.Context, offset int) (Page[int], error) {
		calls++
		cancel()
		return Page[int]{Items: []int{offset}, Offset: offset + 1, Total: 10}, nil
	})

	_, err := All[int, int](ctx, fetcher, Identity[int], DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("All() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFetcherFunc(t *testing.T) {
	var gotOffset int
	f := FetcherFunc[string](func(_ context.Context, offset int) (Page[string], error) {
		gotOffset = offset
		return Page[string]{Items: []string{"a"}, Offset: offset + 1, Total: 1}, nil
	})

	page, err := f.FetchPage(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if gotOffset != 7 {
		t.Errorf("offset = %d, want 7", gotOffset)
	}
	if page.Offset != 8 {
		t.Errorf("page.Offset = %d, want 8", page.Offset)
	}
}
