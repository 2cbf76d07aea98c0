package text_test

import (
	"fmt"
	"os"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

func ExampleParseString() {
	g, err := text.ParseString("A -> B 5\nB -> C 3", text.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Directed:", g.IsDirected())
	fmt.Println("Weighted:", g.IsWeighted())
	fmt.Println("Nodes:", g.NodeCount())
	// Output:
	// Directed: true
	// Weighted: true
	// Nodes: 3
}

func ExampleParseString_parseError() {
	// The second line switches shape, which aborts the whole load.
	_, err := text.ParseString("A B\nB -> C", text.Options{})
	fmt.Println(err)
	// Output:
	// line 2: expected "NAME NAME", got 3 tokens
}

func ExampleFormat() {
	g := graph.New(false, true)
	a := g.AddNode("hub")
	b := g.AddNode("left")
	c := g.AddNode("right")
	_ = g.AddWeightedEdge(a, b, 2)
	_ = g.AddWeightedEdge(a, c, 4)

	if err := text.Format(os.Stdout, g); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// hub left 2
	// hub right 4
}
