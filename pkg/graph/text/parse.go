package text

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// ParseError describes a malformed or inconsistent line. The whole load is
// aborted; nothing was added to any graph.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Options control parsing.
type Options struct {
	// Place returns the initial position for the i-th node the parser
	// creates, counted from zero. Nil places every node at the origin;
	// interactive callers usually pass a scatter function so imported
	// graphs do not start in a degenerate stack.
	Place func(i int) vec.Vector
}

func (o Options) place(i int) vec.Vector {
	if o.Place == nil {
		return vec.Zero(2)
	}
	return o.Place(i)
}

// mode is the line shape inferred from the first payload line.
type mode struct {
	directed bool
	weighted bool
}

func (m mode) tokens() int {
	n := 2
	if m.directed {
		n++
	}
	if m.weighted {
		n++
	}
	return n
}

func (m mode) String() string {
	shape := "NAME NAME"
	if m.directed {
		shape = "NAME -> NAME"
	}
	if m.weighted {
		shape += " WEIGHT"
	}
	return shape
}

// Parse reads the wire format from r and builds a graph. Any malformed
// line aborts the whole load with a *ParseError.
func Parse(r io.Reader, opts Options) (*graph.Graph, error) {
	type edgeSpec struct {
		from, to string
		weight   float64
	}

	var (
		m        mode
		haveMode bool
		specs    []edgeSpec
	)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		if !haveMode {
			inferred, err := inferMode(fields, lineno)
			if err != nil {
				return nil, err
			}
			m = inferred
			haveMode = true
		}

		spec, err := parseLine(fields, m, lineno)
		if err != nil {
			return nil, err
		}
		specs = append(specs, edgeSpec{spec.from, spec.to, spec.weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	g := graph.New(m.directed, m.weighted)
	byName := make(map[string]graph.NodeID)
	node := func(name string) graph.NodeID {
		if id, ok := byName[name]; ok {
			return id
		}
		id := g.AddNodeAt(name, opts.place(len(byName)))
		byName[name] = id
		return id
	}
	for _, s := range specs {
		from, to := node(s.from), node(s.to)
		if err := g.AddWeightedEdge(from, to, s.weight); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(s string, opts Options) (*graph.Graph, error) {
	return Parse(strings.NewReader(s), opts)
}

// inferMode fixes the file mode from the first payload line.
func inferMode(fields []string, lineno int) (mode, error) {
	var m mode
	m.directed = len(fields) >= 2 && isArrow(fields[1])
	switch len(fields) {
	case 2:
		if m.directed {
			return m, &ParseError{lineno, "arrow without a target node"}
		}
	case 3:
		m.weighted = !m.directed
	case 4:
		if !m.directed {
			return m, &ParseError{lineno, "too many tokens for an undirected edge"}
		}
		m.weighted = true
	default:
		return m, &ParseError{lineno, fmt.Sprintf("expected an edge line, got %d tokens", len(fields))}
	}
	return m, nil
}

type lineSpec struct {
	from, to string
	weight   float64
}

// parseLine validates one payload line against the file mode and extracts
// the edge it describes.
func parseLine(fields []string, m mode, lineno int) (lineSpec, error) {
	var spec lineSpec
	if len(fields) != m.tokens() {
		return spec, &ParseError{lineno, fmt.Sprintf("expected %q, got %d tokens", m.String(), len(fields))}
	}

	if m.directed {
		arrow := fields[1]
		if !isArrow(arrow) {
			return spec, &ParseError{lineno, fmt.Sprintf("expected an arrow, got %q", arrow)}
		}
		spec.from, spec.to = fields[0], fields[2]
		if arrow == "<-" {
			spec.from, spec.to = spec.to, spec.from
		}
	} else {
		spec.from, spec.to = fields[0], fields[1]
	}
	for _, name := range []string{spec.from, spec.to} {
		if isArrow(name) {
			return spec, &ParseError{lineno, fmt.Sprintf("unexpected arrow %q in place of a node name", name)}
		}
	}

	spec.weight = graph.DefaultWeight
	if m.weighted {
		w, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return spec, &ParseError{lineno, fmt.Sprintf("invalid weight %q", fields[len(fields)-1])}
		}
		spec.weight = w
	}
	return spec, nil
}

func isArrow(tok string) bool {
	return tok == "->" || tok == "<-"
}
