package constraint

import "github.com/fadingrose/qmlcheck/qmlerr"

// AsItemError classifies an error produced by this package's Parse*/Compile
// functions into the §4.1 taxonomy and attaches itemID. It returns nil only
// for a nil err; any other error that isn't one of this package's per-item
// kinds is reported as ParseError with offset -1.
func AsItemError(itemID string, err error) *qmlerr.ItemError {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *ParseError:
		return qmlerr.NewItem(qmlerr.ParseError, itemID, e.Offset, e.Msg)
	case *UnknownFunctionError:
		return qmlerr.NewItem(qmlerr.UnknownFunction, itemID, e.Offset, e.Error())
	case *typeError:
		return qmlerr.NewItem(qmlerr.TypeMismatch, itemID, e.Offset, e.Msg)
	default:
		// UnsupportedError and unresolvedError are structural (§7) — callers
		// that can only accept an ItemError should check AsStructuralError
		// first.
		return qmlerr.NewItem(qmlerr.ParseError, itemID, -1, err.Error())
	}
}

// AsStructuralError classifies a parse-time error as structural when it
// arises in a context spec.md treats as document-wide (§7 UnsupportedExpression,
// UnresolvedIdentifier are listed as structural kinds there; compiler-level
// UnsupportedExpression on a code fragment's control flow is one such case).
func AsStructuralError(itemID string, err error) *qmlerr.StructuralError {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *UnsupportedError:
		return qmlerr.NewStructuralItem(qmlerr.UnsupportedExpression, itemID, e.Offset, e.Msg)
	case *unresolvedError:
		return qmlerr.NewStructuralItem(qmlerr.UnresolvedIdentifier, itemID, e.Offset, e.Error())
	default:
		return nil
	}
}

// IsStructural reports whether err is one of the error kinds §7 classifies
// as structural (abort-whole-analysis) rather than per-item.
func IsStructural(err error) bool {
	switch err.(type) {
	case *UnsupportedError, *unresolvedError:
		return true
	default:
		return false
	}
}
