package constraint

// ReferencedQIDs walks an expression tree and returns, in encounter order,
// the set of distinct item ids referenced via `qid.outcome` or
// `qid.outcome is [not] None` (§3 "Dependency edge j → i exists iff P_i or
// Q_i or code_i references S_j"). Used by the static builder to populate
// the dependency graph before any SMT term is built.
func ReferencedQIDs(e Expr) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(Expr)
	walk = func(e Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *Outcome:
			if !seen[n.QID] {
				seen[n.QID] = true
				order = append(order, n.QID)
			}
		case *IsNone:
			if !seen[n.QID] {
				seen[n.QID] = true
				order = append(order, n.QID)
			}
		case *UnaryExpr:
			walk(n.X)
		case *BinaryExpr:
			walk(n.L)
			walk(n.R)
		case *CompareExpr:
			walk(n.L)
			walk(n.R)
		case *BoolExpr:
			walk(n.L)
			walk(n.R)
		case *CondExpr:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
		}
	}
	walk(e)
	return order
}

// StmtRefs returns the qids referenced (reads) and the local names written
// (writes) by a code fragment's statement list. Writes to `qid.outcome`
// (another item's outcome) also count as a dependency edge's *source* once
// SSA-joined — the static builder treats a `qid.outcome = ...` assignment
// as both a read of prior state and a write the enclosing item's own
// downstream dependents must see; locals are never cross-item dependencies
// (§4.1 "locals are not dependencies between items").
func StmtRefs(stmts []Stmt) (reads []string, localWrites []string, outcomeWrites []string) {
	seenRead := map[string]bool{}
	seenLocal := map[string]bool{}
	seenOutcome := map[string]bool{}
	var walkStmts func([]Stmt)
	addRead := func(qid string) {
		if !seenRead[qid] {
			seenRead[qid] = true
			reads = append(reads, qid)
		}
	}
	walkStmts = func(stmts []Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *AssignStmt:
				for _, q := range ReferencedQIDs(n.Value) {
					addRead(q)
				}
				if n.TargetQID != "" {
					if !seenOutcome[n.TargetQID] {
						seenOutcome[n.TargetQID] = true
						outcomeWrites = append(outcomeWrites, n.TargetQID)
					}
				} else if !seenLocal[n.Target] {
					seenLocal[n.Target] = true
					localWrites = append(localWrites, n.Target)
				}
			case *IfStmt:
				for _, q := range ReferencedQIDs(n.Cond) {
					addRead(q)
				}
				walkStmts(n.Then)
				walkStmts(n.Else)
			}
		}
	}
	walkStmts(stmts)
	return reads, localWrites, outcomeWrites
}
