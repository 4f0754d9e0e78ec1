package classify

import (
	"fmt"
	"sort"
	"strings"
)

// DebugDump renders every item's Level 1 classification as text.
func DebugDump(records map[string]*Record) string {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		rec := records[id]
		fmt.Fprintf(&b, "%s: reach=%s post=%s", id, rec.Reach, rec.Post)
		if rec.Unobservable {
			fmt.Fprint(&b, " (unobservable)")
		}
		if rec.ReachUndecided || rec.PostUndecided {
			fmt.Fprint(&b, " (undecided query)")
		}
		if rec.Witness != nil {
			fmt.Fprintf(&b, " witness=%v", rec.Witness)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
