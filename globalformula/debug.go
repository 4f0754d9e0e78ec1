package globalformula

import (
	"fmt"
	"strings"
)

// DebugDump renders the Level 2 verdict and conflict set as text.
func (r *Result) DebugDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "verdict: %s\n", r.Verdict)
	if len(r.Conflict) > 0 {
		fmt.Fprintf(&b, "conflict: %s\n", strings.Join(r.Conflict, ", "))
	}
	if r.Witness != nil {
		fmt.Fprintf(&b, "witness: %v\n", r.Witness)
	}
	return b.String()
}
