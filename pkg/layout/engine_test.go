package layout

import (
	"context"
	"math"
	"testing"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/vec"
)

func newEngine() *Engine {
	return New(Options{Seed: 7})
}

func TestEvaluateSumsQueuedForces(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(1, 1))
	e := newEngine()

	e.AddForce(a, vec.New(1, 0))
	e.AddForce(a, vec.New(0, 2))
	e.AddForce(a, vec.New(-0.5, 0))
	e.Evaluate(g, a)

	pos, _ := g.Position(a)
	if !pos.AlmostEqual(vec.New(1.5, 3), 1e-12) {
		t.Errorf("position = %v, want (1.5, 3)", pos)
	}

	// The queue is drained: evaluating again moves nothing.
	e.Evaluate(g, a)
	pos, _ = g.Position(a)
	if !pos.AlmostEqual(vec.New(1.5, 3), 1e-12) {
		t.Errorf("second evaluate moved the node to %v", pos)
	}
}

func TestEvaluateDiscardsForcesWhileHeld(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(5, 5))
	if err := g.StartDrag(a, vec.New(5, 5)); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.AddForce(a, vec.New(100, 100))
	e.Evaluate(g, a)

	pos, _ := g.Position(a)
	if !pos.AlmostEqual(vec.New(5, 5), 0) {
		t.Errorf("held node moved to %v", pos)
	}

	// Forces queued while held are gone for good, not deferred.
	if err := g.StopDrag(a); err != nil {
		t.Fatal(err)
	}
	e.Evaluate(g, a)
	pos, _ = g.Position(a)
	if !pos.AlmostEqual(vec.New(5, 5), 0) {
		t.Errorf("discarded forces were applied after release, pos %v", pos)
	}
}

func TestClearForces(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(1, 0))
	e := newEngine()

	e.AddForce(a, vec.New(1, 1))
	e.AddForce(b, vec.New(1, 1))
	e.ClearForces(a)
	e.Evaluate(g, a)
	e.Evaluate(g, b)

	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if !posA.AlmostEqual(vec.New(0, 0), 0) {
		t.Errorf("cleared node moved to %v", posA)
	}
	if !posB.AlmostEqual(vec.New(2, 1), 1e-12) {
		t.Errorf("uncleared node at %v, want (2, 1)", posB)
	}

	e.AddForce(a, vec.New(1, 0))
	e.AddForce(b, vec.New(1, 0))
	e.ClearAll()
	e.Evaluate(g, a)
	e.Evaluate(g, b)
	posA, _ = g.Position(a)
	if !posA.AlmostEqual(vec.New(0, 0), 0) {
		t.Errorf("ClearAll left forces on a: %v", posA)
	}
}

func TestStepRepelsCloseNodes(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(1, 0))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.Step(g, true)

	// Below rest length both terms push apart: repulsion 1/d² and the
	// compressed spring -(d-8)*0.1.
	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if !(posA.X() < 0 && posB.X() > 1) {
		t.Errorf("close pair did not separate: a=%v b=%v", posA, posB)
	}
	if posA.Y() != 0 || posB.Y() != 0 {
		t.Errorf("force left the pair axis: a=%v b=%v", posA, posB)
	}
}

func TestStepAttractsFarConnectedNodes(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(100, 0))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.Step(g, true)

	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if !(posA.X() > 0 && posB.X() < 100) {
		t.Errorf("far pair did not approach: a=%v b=%v", posA, posB)
	}
}

func TestStepIgnoresDisconnectedPairs(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(0.5, 0))
	e := newEngine()

	e.Step(g, true)

	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if !posA.AlmostEqual(vec.New(0, 0), 0) || !posB.AlmostEqual(vec.New(0.5, 0), 0) {
		t.Errorf("disconnected nodes moved: a=%v b=%v", posA, posB)
	}
}

func TestStepJittersCoincidentNodes(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(2, 2))
	b := g.AddNodeAt("b", vec.New(2, 2))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.Step(g, true)

	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if posB.AlmostEqual(vec.New(2, 2), 0) == false {
		t.Errorf("jitter must only touch the first node, b moved to %v", posB)
	}
	if posA.AlmostEqual(vec.New(2, 2), 0) {
		t.Error("first node was not jittered")
	}
}

func TestStepDisabledDoesNothing(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(1, 0))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.Step(g, false)

	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if !posA.AlmostEqual(vec.New(0, 0), 0) || !posB.AlmostEqual(vec.New(1, 0), 0) {
		t.Error("disabled step moved nodes")
	}
}

func TestStepEqualDistanceIsSymmetric(t *testing.T) {
	// Two nodes pinned by symmetry: the middle node of a path gets equal
	// and opposite forces from its neighbors and must stay put.
	g := graph.New(false, false)
	l := g.AddNodeAt("l", vec.New(-3, 0))
	m := g.AddNodeAt("m", vec.New(0, 0))
	r := g.AddNodeAt("r", vec.New(3, 0))
	if err := g.AddEdge(l, m); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(m, r); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.Step(g, true)

	posM, _ := g.Position(m)
	if math.Abs(posM.X()) > 1e-9 || math.Abs(posM.Y()) > 1e-9 {
		t.Errorf("middle node drifted to %v", posM)
	}
}

func TestRotateGroup(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(1, 0))
	b := g.AddNodeAt("b", vec.New(-1, 0))
	c := g.AddNodeAt("c", vec.New(3, 0))
	loner := g.AddNodeAt("loner", vec.New(9, 9))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(a, c); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	// Pivot point is the average of a and b, the origin.
	if err := e.RotateGroup(g, []graph.NodeID{a, b}, math.Pi/2); err != nil {
		t.Fatal(err)
	}

	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	posC, _ := g.Position(c)
	posL, _ := g.Position(loner)
	if !posA.AlmostEqual(vec.New(0, 1), 1e-9) {
		t.Errorf("a = %v, want (0, 1)", posA)
	}
	if !posB.AlmostEqual(vec.New(0, -1), 1e-9) {
		t.Errorf("b = %v, want (0, -1)", posB)
	}
	if !posC.AlmostEqual(vec.New(0, 3), 1e-9) {
		t.Errorf("connected non-pivot c = %v, want (0, 3)", posC)
	}
	if !posL.AlmostEqual(vec.New(9, 9), 0) {
		t.Errorf("disconnected node moved to %v", posL)
	}
}

func TestRotateGroupRotatesEachNodeOnce(t *testing.T) {
	// Two pivots in one component: c sits at distance 2 from the pivot
	// point and must land exactly 90° around, not 180°.
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(0, 0))
	c := g.AddNodeAt("c", vec.New(2, 0))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(b, c); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	if err := e.RotateGroup(g, []graph.NodeID{a, b}, math.Pi/2); err != nil {
		t.Fatal(err)
	}

	posC, _ := g.Position(c)
	if !posC.AlmostEqual(vec.New(0, 2), 1e-9) {
		t.Errorf("c = %v, want (0, 2) after a single quarter turn", posC)
	}
}

func TestRotateGroupEmptyAndUnknown(t *testing.T) {
	g := graph.New(false, false)
	g.AddNodeAt("a", vec.New(1, 1))
	e := newEngine()

	if err := e.RotateGroup(g, nil, math.Pi); err != nil {
		t.Errorf("empty pivot set: %v", err)
	}
	if err := e.RotateGroup(g, []graph.NodeID{999}, math.Pi); err == nil {
		t.Error("unknown pivot must fail")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(1, 0))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Run(ctx, g, 1000); err == nil {
		t.Error("canceled run must report the context error")
	}

	if err := e.Run(context.Background(), g, 50); err != nil {
		t.Errorf("Run: %v", err)
	}
	posA, _ := g.Position(a)
	posB, _ := g.Position(b)
	if d := posA.Dist(posB); d < 1 {
		t.Errorf("after 50 iterations the pair is still at distance %v", d)
	}
}

func TestScatter(t *testing.T) {
	g := graph.New(false, false)
	ids := make([]graph.NodeID, 5)
	for i := range ids {
		ids[i] = g.AddNodeAt("n", vec.New(50, 50))
	}
	if err := g.StartDrag(ids[0], vec.New(50, 50)); err != nil {
		t.Fatal(err)
	}
	e := newEngine()

	e.Scatter(g, 10)

	held, _ := g.Position(ids[0])
	if !held.AlmostEqual(vec.New(50, 50), 0) {
		t.Errorf("held node was scattered to %v", held)
	}
	for _, id := range ids[1:] {
		pos, _ := g.Position(id)
		if pos.X() < 0 || pos.X() >= 10 || pos.Y() < 0 || pos.Y() >= 10 {
			t.Errorf("scattered position %v outside [0,10)²", pos)
		}
		if pos.AlmostEqual(vec.New(50, 50), 0) {
			t.Errorf("node %d was not moved", id)
		}
	}
}

func TestPlacerFallsBackToDefaultSide(t *testing.T) {
	e := newEngine()
	place := e.Placer(0)
	for i := 0; i < 10; i++ {
		p := place(i)
		if p.X() < 0 || p.X() >= DefaultScatterSide || p.Y() < 0 || p.Y() >= DefaultScatterSide {
			t.Errorf("placement %v outside the default square", p)
		}
	}
}
