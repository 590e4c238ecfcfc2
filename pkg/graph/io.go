package graph

import (
	"encoding/json"
	"io"

	"github.com/layoutd/layoutd/pkg/errors"
)

// ReadGraph decodes a layout request from JSON. Malformed JSON and wrong
// field types surface as coded INVALID_INPUT errors; schema rules are not
// checked here (see [Graph.Validate]). Unknown fields are ignored.
func ReadGraph(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return &g, nil
}

// MarshalGraph serializes a graph to canonical JSON. Used for cache keys;
// two requests that decode to the same value produce identical bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	return json.Marshal(g)
}
