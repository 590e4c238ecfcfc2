package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/layoutd/layoutd/pkg/elk"
	"github.com/layoutd/layoutd/pkg/errors"
)

// maxErrorBody caps how much of an engine error response is echoed back.
const maxErrorBody = 2048

// Remote invokes a layout engine over HTTP: the wire-model graph is POSTed
// as JSON and the annotated graph comes back as the response body.
//
// Remote deliberately has no retry logic and no client-side timeout of its
// own; the deadline belongs to [Invoke].
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote creates an engine client for the given endpoint URL.
func NewRemote(url string) *Remote {
	return &Remote{
		url:    url,
		client: &http.Client{},
	}
}

// RemoteFactory returns a Factory producing a fresh [Remote] per request.
func RemoteFactory(url string) Factory {
	return func() (Engine, error) {
		if url == "" {
			return nil, errors.New(errors.ErrCodeInternal, "engine url not configured")
		}
		return NewRemote(url), nil
	}
}

// Layout implements [Engine].
func (r *Remote) Layout(ctx context.Context, g *elk.Graph) (*elk.Result, error) {
	body, err := json.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode engine request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build engine request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngine, err, "engine unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeEngine, "engine returned %d: %s",
			resp.StatusCode, errorBody(resp.Body))
	}

	var res elk.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngine, err, "decode engine response")
	}
	return &res, nil
}

// errorBody extracts a short human-readable message from an engine error
// response, preferring a JSON {"error": ...} field when present.
func errorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return "no details"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(fmt.Sprintf("%s", data))
}
