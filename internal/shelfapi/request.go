package shelfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// requestBuilder assembles one backend request.
type requestBuilder struct {
	method  string
	baseURL string
	path    string
	headers map[string]string
	body    any
	ctx     context.Context
}

func newRequest(ctx context.Context, method, baseURL string) *requestBuilder {
	return &requestBuilder{
		method:  method,
		baseURL: baseURL,
		headers: map[string]string{"Accept": "application/json"},
		ctx:     ctx,
	}
}

func (b *requestBuilder) Path(path string) *requestBuilder {
	b.path = path
	return b
}

// JSON sets the request body and the matching content type.
func (b *requestBuilder) JSON(body any) *requestBuilder {
	b.body = body
	b.headers["Content-Type"] = "application/json"
	return b
}

func (b *requestBuilder) Build() (*http.Request, error) {
	u, err := url.Parse(b.baseURL + b.path)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	var bodyReader io.Reader
	if b.body != nil {
		encoded, err := json.Marshal(b.body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(b.ctx, b.method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
