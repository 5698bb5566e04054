package graph

// Host notification callbacks. The template invokes them synchronously
// from the mutating operation, after its own state is consistent.
// Handlers must not re-enter the template.
//
// graph_changed fires on any structural change: create, delete, connect,
// disconnect, clear, and once after a load. simulation_outdated fires
// whenever the next Resolve may return a different value; it accompanies
// every graph_changed and also parameter edits. connection_changed is
// addressed to the destination node of a rewired input.

// OnGraphChanged registers a callback for structural changes.
func (t *Template) OnGraphChanged(fn func()) {
	t.graphChangedFns = append(t.graphChangedFns, fn)
}

// OnSimulationOutdated registers a callback for resolve-relevant
// changes.
func (t *Template) OnSimulationOutdated(fn func()) {
	t.simulationOutdatedFns = append(t.simulationOutdatedFns, fn)
}

// OnConnectionChanged registers a callback for per-node rewiring. The
// argument is the destination node's name.
func (t *Template) OnConnectionChanged(fn func(node string)) {
	t.connectionChangedFns = append(t.connectionChangedFns, fn)
}

func (t *Template) notifyGraphChanged() {
	if t.quiet {
		return
	}
	for _, fn := range t.graphChangedFns {
		fn()
	}
}

func (t *Template) notifySimulationOutdated() {
	if t.quiet {
		return
	}
	for _, fn := range t.simulationOutdatedFns {
		fn()
	}
}

func (t *Template) notifyConnectionChanged(name string) {
	if t.quiet {
		return
	}
	if n, ok := t.nodes[name]; ok {
		if o, ok := n.behavior.(ConnectionObserver); ok {
			o.ConnectionChanged()
		}
	}
	for _, fn := range t.connectionChangedFns {
		fn(name)
	}
}
