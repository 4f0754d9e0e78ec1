package constraint

// Expr is a compiled-from-text expression node (§4.1). The concrete node
// types are exported; the analysis package walks the statement nodes when
// lowering code fragments.
type Expr interface{ exprNode() }

type IntLit struct {
	Value  int64
	Offset int
}

type BoolLit struct {
	Value  bool
	Offset int
}

// NoneLit represents the `None` literal, only legal on one side of an
// `is`/`is not` comparison (§4.1 "Literals ... None (only comparable with
// is/is not)").
type NoneLit struct {
	Offset int
}

// Ident is a bare local identifier reference.
type Ident struct {
	Name   string
	Offset int
}

// Outcome is a `qid.outcome` reference — an item's current outcome value.
type Outcome struct {
	QID    string
	Offset int
}

// IsNone is `qid.outcome is [not] None`, the visitedness predicate (§9).
type IsNone struct {
	QID    string
	Negate bool
	Offset int
}

type UnaryExpr struct {
	Op     string // "not", "-", "+"
	X      Expr
	Offset int
}

type BinaryExpr struct {
	Op     string // "+", "-", "*", "//", "%"
	L, R   Expr
	Offset int
}

type CompareExpr struct {
	Op     string // "==", "!=", "<", "<=", ">", ">="
	L, R   Expr
	Offset int
}

type BoolExpr struct {
	Op     string // "and", "or"
	L, R   Expr
	Offset int
}

// CondExpr is the supplemented ternary `a if cond else b` (SPEC_FULL §C.4).
type CondExpr struct {
	Cond, Then, Else Expr
	Offset           int
}

func (*IntLit) exprNode()     {}
func (*BoolLit) exprNode()    {}
func (*NoneLit) exprNode()    {}
func (*Ident) exprNode()      {}
func (*Outcome) exprNode()    {}
func (*IsNone) exprNode()     {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*CompareExpr) exprNode() {}
func (*BoolExpr) exprNode()   {}
func (*CondExpr) exprNode()   {}

// Stmt is one statement of a code fragment (§3 code_i, §9 SSA lowering).
// Only assignment and conditional are supported. `for` and `while` loops are
// rejected at parse time with UnsupportedExpression; any other statement form
// fails to parse with a ParseError.
type Stmt interface{ stmtNode() }

// AssignStmt assigns Value to a local name or, when TargetQID is non-empty,
// to that item's outcome (`qid.outcome = expr`).
type AssignStmt struct {
	Target    string
	TargetQID string
	Value     Expr
	Offset    int
}

// IfStmt is `if Cond: Then... else: Else...`; Else may be empty.
type IfStmt struct {
	Cond   Expr
	Then   []Stmt
	Else   []Stmt
	Offset int
}

func (*AssignStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
