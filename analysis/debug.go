package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// DebugDump renders every item's compiled precondition/postcondition terms
// as Z3's own string form, the Go-side equivalent of the original's
// pragmatic_compiler.py debug_dump.
func (r *Result) DebugDump() string {
	var b strings.Builder
	ids := make([]string, 0, len(r.Items))
	for id := range r.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		it := r.Items[id]
		if it.Err != nil {
			fmt.Fprintf(&b, "%s: ERROR %s\n", id, it.Err)
			continue
		}
		fmt.Fprintf(&b, "%s:\n  P = %s\n  Q = %s\n", id, it.P, it.QAll)
	}
	return b.String()
}
