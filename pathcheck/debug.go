package pathcheck

import (
	"fmt"
	"sort"
	"strings"
)

// DebugDump renders every item's Level 3 dead-code result as text.
func DebugDump(records map[string]*Record) string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		rec := records[id]
		fmt.Fprintf(&b, "%s: dead=%v", id, rec.Dead)
		if rec.Undecided {
			fmt.Fprint(&b, " (undecided)")
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
