package graph

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/layoutd/layoutd/pkg/errors"
)

// validate is a singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report json field names instead of Go struct names so error
	// locations match what the caller actually sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the graph against the request schema and returns a coded
// INVALID_INPUT error naming the first structural violation, with its
// location (e.g. "nodes[2].width must be > 0").
//
// Checks, in order: nodes/edges arrays present, graph-level enum values,
// per-node field rules and id uniqueness, per-port rules and per-node port
// id uniqueness, per-edge rules and edge id uniqueness. Defaults are not
// required for validation; callers apply them afterwards with
// [Graph.ApplyDefaults].
func (g *Graph) Validate() error {
	if g.Nodes == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nodes is required")
	}
	if g.Edges == nil {
		return errors.New(errors.ErrCodeInvalidInput, "edges is required")
	}

	if g.Direction != "" && g.Direction != DirectionDown && g.Direction != DirectionRight {
		return errors.New(errors.ErrCodeInvalidDirection,
			"direction must be one of DOWN, RIGHT, got %q", g.Direction)
	}
	if err := checkStruct(g.Spacing, "spacing"); err != nil {
		return err
	}

	nodeIDs := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		loc := fmt.Sprintf("nodes[%d]", i)
		if err := checkStruct(n, loc); err != nil {
			return err
		}
		if _, dup := nodeIDs[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "%s.id %q is not unique", loc, n.ID)
		}
		nodeIDs[n.ID] = struct{}{}

		portIDs := make(map[string]struct{}, len(n.Ports))
		for j, p := range n.Ports {
			ploc := fmt.Sprintf("%s.ports[%d]", loc, j)
			if p.Side != "" && p.Side != SideNorth && p.Side != SideEast &&
				p.Side != SideSouth && p.Side != SideWest {
				return errors.New(errors.ErrCodeInvalidSide,
					"%s.side must be one of N, E, S, W, got %q", ploc, p.Side)
			}
			if err := checkStruct(p, ploc); err != nil {
				return err
			}
			if _, dup := portIDs[p.ID]; dup {
				return errors.New(errors.ErrCodeInvalidInput, "%s.id %q is not unique within node %q", ploc, p.ID, n.ID)
			}
			portIDs[p.ID] = struct{}{}
		}
	}

	edgeIDs := make(map[string]struct{}, len(g.Edges))
	for i, e := range g.Edges {
		loc := fmt.Sprintf("edges[%d]", i)
		if err := checkStruct(e, loc); err != nil {
			return err
		}
		if _, dup := edgeIDs[e.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "%s.id %q is not unique", loc, e.ID)
		}
		edgeIDs[e.ID] = struct{}{}
	}

	return nil
}

// checkStruct runs the tag-based rules for a single element and converts the
// first failure into a located INVALID_INPUT error.
func checkStruct(v any, loc string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInternal, err, "validate %s", loc)
	}
	fe := verrs[0]
	return errors.New(errors.ErrCodeInvalidInput, "%s.%s %s", loc, fe.Field(), constraintMessage(fe))
}

// constraintMessage renders a human-readable description of a failed rule.
func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}
