package topology

import (
	"fmt"
	"sort"
	"strings"
)

// DebugDump renders the computed order, layers, and components as text, the
// Go-side equivalent of the original's per-module debug_dump methods
// (qml_topology.py).
func (r *Result) DebugDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order: %s\n", strings.Join(r.Order, " -> "))

	ids := make([]string, 0, len(r.Layers))
	for id := range r.Layers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(&b, "layers:")
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s: %d\n", id, r.Layers[id])
	}
	fmt.Fprintln(&b, "components:")
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s: %d\n", id, r.Components[id])
	}
	return b.String()
}
