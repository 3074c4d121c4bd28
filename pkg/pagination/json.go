package pagination

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jeffail/gabs/v2"
)

// ErrMalformedPage is returned when a response body lacks the fields needed
// to build a page.
var ErrMalformedPage = errors.New("malformed page")

// FieldSpec locates page fields inside a JSON response body.
// Paths are dot separated, e.g. "context.total".
type FieldSpec struct {
	// Items is the path of the array holding the page records (required).
	Items string

	// Offset is the path of the next offset. When empty or absent from the
	// body, the next offset is the request offset plus the page length.
	Offset string

	// Total is the path of the collection total (required).
	Total string
}

// JSONPage builds a Page from a raw JSON body, decoding every element of the
// items array into R.
func JSONPage[R any](body []byte, fields FieldSpec, requestOffset int) (Page[R], error) {
	var page Page[R]

	doc, err := gabs.ParseJSON(body)
	if err != nil {
		return page, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}

	if !doc.ExistsP(fields.Items) {
		return page, fmt.Errorf("%w: missing %q", ErrMalformedPage, fields.Items)
	}
	list, ok := doc.Path(fields.Items).Data().([]interface{})
	if !ok {
		return page, fmt.Errorf("%w: %q is not an array", ErrMalformedPage, fields.Items)
	}

	page.Items = make([]R, 0, len(list))
	for i, child := range doc.Path(fields.Items).Children() {
		var item R
		if err := json.Unmarshal(child.Bytes(), &item); err != nil {
			return page, fmt.Errorf("%w: decode %s[%d]: %v", ErrMalformedPage, fields.Items, i, err)
		}
		page.Items = append(page.Items, item)
	}

	total, err := intAt(doc, fields.Total)
	if err != nil {
		return page, err
	}
	page.Total = total

	page.Offset = requestOffset + len(page.Items)
	if fields.Offset != "" && doc.ExistsP(fields.Offset) {
		offset, err := intAt(doc, fields.Offset)
		if err != nil {
			return page, err
		}
		page.Offset = offset
	}

	return page, nil
}

func intAt(doc *gabs.Container, path string) (int, error) {
	if path == "" || !doc.ExistsP(path) {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedPage, path)
	}
	switch v := doc.Path(path).Data().(type) {
	case float64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedPage, path, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedPage, path)
	}
}
