package graph

import (
	"errors"
	"testing"
)

func TestCreateNodeDerivesUniqueNames(t *testing.T) {
	tpl := NewTemplate()
	a, err := tpl.CreateNode(newConst(1), Vec2{})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	b, _ := tpl.CreateNode(newConst(2), Vec2{})
	c, _ := tpl.CreateNode(newConst(3), Vec2{})

	if a.Name() != "const" || b.Name() != "const2" || c.Name() != "const3" {
		t.Errorf("derived names = %q, %q, %q", a.Name(), b.Name(), c.Name())
	}
	if tpl.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", tpl.NodeCount())
	}
}

func TestSingleOutputNode(t *testing.T) {
	tpl := NewTemplate()
	out, err := tpl.CreateNode(&terminalBehavior{}, Vec2{})
	if err != nil {
		t.Fatalf("CreateNode(terminal): %v", err)
	}
	if tpl.OutputNode() != out {
		t.Error("OutputNode should return the terminal")
	}
	if !out.IsOutput() {
		t.Error("terminal node should report IsOutput")
	}

	if _, err := tpl.CreateNode(&terminalBehavior{}, Vec2{}); !errors.Is(err, ErrOutputExists) {
		t.Errorf("second terminal: err = %v, want ErrOutputExists", err)
	}
	if tpl.NodeCount() != 1 {
		t.Error("rejected create must not change the template")
	}
}

func TestDeleteOutputProtected(t *testing.T) {
	tpl := NewTemplate()
	out, _ := tpl.CreateNode(&terminalBehavior{}, Vec2{})

	if err := tpl.DeleteNode(out.Name()); !errors.Is(err, ErrOutputProtected) {
		t.Errorf("DeleteNode(output): err = %v, want ErrOutputProtected", err)
	}
	if tpl.NodeCount() != 1 || tpl.OutputNode() == nil {
		t.Error("rejected delete must not change the template")
	}
}

func TestDeleteUnknownNode(t *testing.T) {
	tpl := NewTemplate()
	if err := tpl.DeleteNode("ghost"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("DeleteNode(ghost): err = %v, want ErrUnknownNode", err)
	}
}

func TestDeleteNodeCascadesConnections(t *testing.T) {
	tpl := NewTemplate()
	c1, _ := tpl.CreateNode(newConst(1), Vec2{})
	c2, _ := tpl.CreateNode(newConst(2), Vec2{})
	sum, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})
	out, _ := tpl.CreateNode(&terminalBehavior{}, Vec2{})

	mustConnect(t, tpl, c1.Name(), 0, sum.Name(), 0)
	mustConnect(t, tpl, c2.Name(), 0, sum.Name(), 1)
	mustConnect(t, tpl, sum.Name(), 0, out.Name(), 0)
	if tpl.ConnectionCount() != 3 {
		t.Fatalf("ConnectionCount = %d, want 3", tpl.ConnectionCount())
	}

	// Deleting sum must sever edges on both sides of it.
	if err := tpl.DeleteNode(sum.Name()); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if tpl.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount after delete = %d, want 0", tpl.ConnectionCount())
	}
	if _, ok := tpl.Node(sum.Name()); ok {
		t.Error("deleted node still present")
	}
}

func TestConnectRejectsSelfLoop(t *testing.T) {
	tpl := NewTemplate()
	sum, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})

	if err := tpl.Connect(sum.Name(), 0, sum.Name(), 0); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self loop: err = %v, want ErrSelfLoop", err)
	}
	if tpl.ConnectionCount() != 0 {
		t.Error("rejected connect must not change the table")
	}
}

func TestConnectRejectsCycle(t *testing.T) {
	tpl := NewTemplate()
	a, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})
	b, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})
	c, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})

	mustConnect(t, tpl, a.Name(), 0, b.Name(), 0)
	mustConnect(t, tpl, b.Name(), 0, c.Name(), 0)

	if err := tpl.Connect(c.Name(), 0, a.Name(), 0); !errors.Is(err, ErrWouldCycle) {
		t.Errorf("closing a cycle: err = %v, want ErrWouldCycle", err)
	}
	if err := tpl.Connect(b.Name(), 0, a.Name(), 1); !errors.Is(err, ErrWouldCycle) {
		t.Errorf("two-node cycle: err = %v, want ErrWouldCycle", err)
	}
	if tpl.ConnectionCount() != 2 {
		t.Errorf("ConnectionCount = %d, want 2", tpl.ConnectionCount())
	}
}

func TestConnectValidatesEndpoints(t *testing.T) {
	tpl := NewTemplate()
	c, _ := tpl.CreateNode(newConst(1), Vec2{})
	sum, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})

	if err := tpl.Connect("ghost", 0, sum.Name(), 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown source: err = %v, want ErrUnknownNode", err)
	}
	if err := tpl.Connect(c.Name(), 0, "ghost", 0); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown destination: err = %v, want ErrUnknownNode", err)
	}
	if err := tpl.Connect(c.Name(), 3, sum.Name(), 0); !errors.Is(err, ErrSlotRange) {
		t.Errorf("bad source slot: err = %v, want ErrSlotRange", err)
	}
	if err := tpl.Connect(c.Name(), 0, sum.Name(), 9); !errors.Is(err, ErrSlotRange) {
		t.Errorf("bad destination slot: err = %v, want ErrSlotRange", err)
	}
	if tpl.ConnectionCount() != 0 {
		t.Error("rejected connects must not change the table")
	}
}

func TestFanInLastConnectWins(t *testing.T) {
	tpl := NewTemplate()
	c1, _ := tpl.CreateNode(newConst(1), Vec2{})
	c2, _ := tpl.CreateNode(newConst(2), Vec2{})
	sum, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})

	mustConnect(t, tpl, c1.Name(), 0, sum.Name(), 0)
	mustConnect(t, tpl, c2.Name(), 0, sum.Name(), 0)

	if tpl.ConnectionCount() != 1 {
		t.Fatalf("ConnectionCount = %d, want 1 (input slot holds one edge)", tpl.ConnectionCount())
	}
	src, ok := tpl.PredecessorOf(sum.Name(), 0)
	if !ok {
		t.Fatal("input slot should be connected")
	}
	if src.Node != c2.Name() {
		t.Errorf("predecessor = %q, want %q (last connect wins)", src.Node, c2.Name())
	}
}

func TestDisconnectExactEdgeOnly(t *testing.T) {
	tpl := NewTemplate()
	c1, _ := tpl.CreateNode(newConst(1), Vec2{})
	c2, _ := tpl.CreateNode(newConst(2), Vec2{})
	sum, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})
	mustConnect(t, tpl, c1.Name(), 0, sum.Name(), 0)

	// A non-matching source leaves the edge in place.
	if err := tpl.Disconnect(c2.Name(), 0, sum.Name(), 0); err != nil {
		t.Fatalf("Disconnect mismatch: %v", err)
	}
	if tpl.ConnectionCount() != 1 {
		t.Error("mismatched disconnect must be a no-op")
	}

	if err := tpl.Disconnect(c1.Name(), 0, sum.Name(), 0); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if tpl.ConnectionCount() != 0 {
		t.Error("edge should be gone")
	}
}

func TestQueries(t *testing.T) {
	tpl := NewTemplate()
	c, _ := tpl.CreateNode(newConst(1), Vec2{})
	s1, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})
	s2, _ := tpl.CreateNode(&sumBehavior{}, Vec2{})

	mustConnect(t, tpl, c.Name(), 0, s1.Name(), 0)
	mustConnect(t, tpl, c.Name(), 0, s1.Name(), 1)
	mustConnect(t, tpl, c.Name(), 0, s2.Name(), 0)

	refs := tpl.SuccessorsOf(c.Name(), 0)
	if len(refs) != 3 {
		t.Fatalf("SuccessorsOf = %v, want 3 refs", refs)
	}
	want := []SlotRef{{Node: "sum", Slot: 0}, {Node: "sum", Slot: 1}, {Node: "sum2", Slot: 0}}
	for i, ref := range refs {
		if ref != want[i] {
			t.Errorf("SuccessorsOf[%d] = %v, want %v", i, ref, want[i])
		}
	}

	nodes := tpl.Successors(c.Name())
	if len(nodes) != 2 {
		t.Fatalf("Successors = %d nodes, want 2 distinct", len(nodes))
	}
	if nodes[0].Name() != "sum" || nodes[1].Name() != "sum2" {
		t.Errorf("Successors = %q, %q", nodes[0].Name(), nodes[1].Name())
	}

	if _, ok := tpl.PredecessorOf(s2.Name(), 1); ok {
		t.Error("unconnected input reported a predecessor")
	}

	all := tpl.Nodes()
	if len(all) != 3 || all[0] != c || all[1] != s1 || all[2] != s2 {
		t.Error("Nodes should list nodes in creation order")
	}
}

func TestEventsOnMutation(t *testing.T) {
	tpl := NewTemplate()
	var graphEvents, simEvents int
	var connEvents []string
	tpl.OnGraphChanged(func() { graphEvents++ })
	tpl.OnSimulationOutdated(func() { simEvents++ })
	tpl.OnConnectionChanged(func(node string) { connEvents = append(connEvents, node) })

	c, _ := tpl.CreateNode(newConst(1), Vec2{})
	term := &terminalBehavior{}
	out, _ := tpl.CreateNode(term, Vec2{})
	if graphEvents != 2 || simEvents != 2 {
		t.Fatalf("after creates: graph=%d sim=%d, want 2/2", graphEvents, simEvents)
	}

	mustConnect(t, tpl, c.Name(), 0, out.Name(), 0)
	if graphEvents != 3 || simEvents != 3 {
		t.Errorf("after connect: graph=%d sim=%d, want 3/3", graphEvents, simEvents)
	}
	if len(connEvents) != 1 || connEvents[0] != out.Name() {
		t.Errorf("connection events = %v, want [%q]", connEvents, out.Name())
	}
	if term.rewired != 1 {
		t.Errorf("behavior observer calls = %d, want 1", term.rewired)
	}

	if err := tpl.Disconnect(c.Name(), 0, out.Name(), 0); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if len(connEvents) != 2 || term.rewired != 2 {
		t.Errorf("after disconnect: events=%v observer=%d", connEvents, term.rewired)
	}

	// Rejected operations stay silent.
	before := graphEvents
	if _, err := tpl.CreateNode(&terminalBehavior{}, Vec2{}); err == nil {
		t.Fatal("expected rejection")
	}
	if err := tpl.Connect(c.Name(), 0, c.Name(), 0); err == nil {
		t.Fatal("expected rejection")
	}
	if graphEvents != before {
		t.Error("rejected operations must not raise events")
	}

	// Delete cascades silently at the per-edge level.
	mustConnect(t, tpl, c.Name(), 0, out.Name(), 0)
	connBefore := len(connEvents)
	if err := tpl.DeleteNode(c.Name()); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if len(connEvents) != connBefore {
		t.Error("cascade removal must not raise per-edge events")
	}
}

func TestExposedVariables(t *testing.T) {
	tpl := NewTemplate()
	tpl.CreateNode(newConst(1), Vec2{})
	tpl.CreateNode(&sumBehavior{}, Vec2{})
	tpl.CreateNode(newConst(2), Vec2{})

	vars := tpl.ExposedVariables()
	if len(vars) != 2 {
		t.Fatalf("ExposedVariables = %v, want 2 entries", vars)
	}
	if vars[0].Name != "const/value" || vars[1].Name != "const2/value" {
		t.Errorf("variable names = %q, %q", vars[0].Name, vars[1].Name)
	}
}

func mustConnect(t *testing.T, tpl *Template, src string, srcSlot int, dst string, dstSlot int) {
	t.Helper()
	if err := tpl.Connect(src, srcSlot, dst, dstSlot); err != nil {
		t.Fatalf("Connect(%s:%d -> %s:%d): %v", src, srcSlot, dst, dstSlot, err)
	}
}
