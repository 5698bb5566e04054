// Package graph implements the concept graph template: a mutable DAG of
// typed nodes that a host edits interactively, persists as a JSON
// document, and resolves on demand into the value of its single Output
// node. Evaluation is pull-based with per-slot memoization; structural
// edits invalidate exactly the downstream cone they touch.
package graph
