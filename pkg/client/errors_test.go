package client

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		expected   ErrorClass
	}{
		{"network error", 0, io.EOF, ErrorClassNetwork},
		{"client error 404", 404, nil, ErrorClassClient},
		{"client error 401", 401, nil, ErrorClassClient},
		{"rate limit 429", 429, nil, ErrorClassRateLimit},
		{"server error 500", 500, nil, ErrorClassServer},
		{"server error 503", 503, nil, ErrorClassServer},
		{"success 200", 200, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.statusCode > 0 {
				resp = &http.Response{StatusCode: tt.statusCode}
			}

			if got := classify(resp, tt.err); got != tt.expected {
				t.Errorf("classify() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "status only",
			err: &APIError{
				App:        "adalo",
				StatusCode: 404,
				ErrorClass: ErrorClassClient,
				Message:    "404 Not Found",
			},
			want: "adalo client error (status 404): 404 Not Found",
		},
		{
			name: "with body",
			err: &APIError{
				App:        "twitter_v2",
				StatusCode: 403,
				ErrorClass: ErrorClassClient,
				Message:    "403 Forbidden",
				Body:       `{"title":"Forbidden"}`,
			},
			want: `twitter_v2 client error (status 403): 403 Forbidden: {"title":"Forbidden"}`,
		},
		{
			name: "wrapped",
			err: &APIError{
				App:        "adalo",
				ErrorClass: ErrorClassNetwork,
				Message:    "GET /x",
				Err:        io.ErrUnexpectedEOF,
			},
			want: "adalo network error: GET /x: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	err := &APIError{ErrorClass: ErrorClassNetwork, Err: io.EOF}

	if !errors.Is(err, io.EOF) {
		t.Error("errors.Is should find wrapped io.EOF")
	}

	var apiErr *APIError
	if !errors.As(error(err), &apiErr) {
		t.Error("errors.As should match *APIError")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&APIError{StatusCode: 404}) {
		t.Error("IsNotFound(404) = false")
	}
	if IsNotFound(&APIError{StatusCode: 500}) {
		t.Error("IsNotFound(500) = true")
	}
	if IsNotFound(errors.New("plain")) {
		t.Error("IsNotFound(plain error) = true")
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("x", maxErrorBody+10)
	got := excerpt([]byte(long))
	if len(got) != maxErrorBody+3 {
		t.Errorf("len(excerpt) = %d, want %d", len(got), maxErrorBody+3)
	}
	if excerpt([]byte("short")) != "short" {
		t.Error("short body should be kept")
	}
}
