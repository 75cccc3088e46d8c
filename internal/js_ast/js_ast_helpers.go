package js_ast

import (
	"math"
	"slices"

	"github.com/jsprint/jsprint/internal/helpers"
	"github.com/jsprint/jsprint/internal/logger"
)

func IsOptionalChain(value Expr) bool {
	var chain OptionalChain
	switch e := value.Data.(type) {
	case *EDot:
		chain = e.OptionalChain
	case *EIndex:
		chain = e.OptionalChain
	case *ECall:
		chain = e.OptionalChain
	}
	return chain != OptionalChainNone
}

func MakeNumber(loc logger.Loc, value float64) Expr {
	return Expr{Loc: loc, Data: &ENumber{Value: value}}
}

func makeBoolean(loc logger.Loc, value bool) Expr {
	return Expr{Loc: loc, Data: &EBoolean{Value: value}}
}

// literalTruthiness is the result of converting a side-effect free literal
// to a boolean. Functions and regular expressions are objects, so they are
// always truthy.
func literalTruthiness(data E) (truthy bool, ok bool) {
	switch e := data.(type) {
	case *ENull, *EUndefined:
		return false, true
	case *EBoolean:
		return e.Value, true
	case *ENumber:
		return e.Value != 0 && !math.IsNaN(e.Value), true
	case *EBigInt:
		return e.Value != "0", true
	case *EString:
		return len(e.Value) > 0, true
	case *EFunction, *EArrow, *ERegExp:
		return true, true
	}
	return false, false
}

// Equality operators flip cleanly under "!". Relational ones do not, since
// "!(a < b)" and "a >= b" differ when either side is NaN.
var negatedEquality = map[OpCode]OpCode{
	BinOpLooseEq:  BinOpLooseNe,
	BinOpLooseNe:  BinOpLooseEq,
	BinOpStrictEq: BinOpStrictNe,
	BinOpStrictNe: BinOpStrictEq,
}

// Not returns "!expr", folded into the operand when that is shorter. For
// example "!!x" where "x" is already a boolean becomes "x".
func Not(expr Expr) Expr {
	if result, ok := MaybeSimplifyNot(expr); ok {
		return result
	}
	return Expr{Loc: expr.Loc, Data: &EUnary{Op: UnOpNot, Value: expr}}
}

// MaybeSimplifyNot takes the operand of a "!" and returns an equivalent
// expression for the whole "!operand" when one exists.
func MaybeSimplifyNot(expr Expr) (Expr, bool) {
	if truthy, ok := literalTruthiness(expr.Data); ok {
		return makeBoolean(expr.Loc, !truthy), true
	}

	switch e := expr.Data.(type) {
	case *EUnary:
		// "!!!a" => "!a"
		if e.Op == UnOpNot && KnownPrimitiveType(e.Value) == PrimitiveBoolean {
			return e.Value, true
		}

	case *EBinary:
		if flipped, ok := negatedEquality[e.Op]; ok {
			return Expr{Loc: expr.Loc, Data: &EBinary{Op: flipped, Left: e.Left, Right: e.Right}}, true
		}
		if e.Op == BinOpComma {
			// "!(a, b)" => "a, !b"
			return Expr{Loc: expr.Loc, Data: &EBinary{Op: BinOpComma, Left: e.Left, Right: Not(e.Right)}}, true
		}
	}
	return Expr{}, false
}

type PrimitiveType uint8

const (
	PrimitiveUnknown PrimitiveType = iota
	PrimitiveNull
	PrimitiveUndefined
	PrimitiveBoolean
	PrimitiveNumber
	PrimitiveString
	PrimitiveBigInt
)

// commonPrimitiveType is the type of an expression that evaluates to one of
// two branches, known only when both branches agree
func commonPrimitiveType(a Expr, b Expr) PrimitiveType {
	if t := KnownPrimitiveType(a); t == KnownPrimitiveType(b) {
		return t
	}
	return PrimitiveUnknown
}

func KnownPrimitiveType(expr Expr) PrimitiveType {
	switch e := expr.Data.(type) {
	case *ENull:
		return PrimitiveNull
	case *EUndefined:
		return PrimitiveUndefined
	case *EBoolean:
		return PrimitiveBoolean
	case *ENumber:
		return PrimitiveNumber
	case *EString:
		return PrimitiveString
	case *EBigInt:
		return PrimitiveBigInt

	case *ETemplate:
		if e.TagOrNil == nil {
			return PrimitiveString
		}

	case *EIf:
		return commonPrimitiveType(e.Yes, e.No)

	case *EUnary:
		switch e.Op {
		case UnOpVoid:
			return PrimitiveUndefined
		case UnOpTypeof:
			return PrimitiveString
		case UnOpNot, UnOpDelete:
			return PrimitiveBoolean
		case UnOpPos:
			// "+" throws on a bigint, so the result is always a number
			return PrimitiveNumber
		}

	case *EBinary:
		switch e.Op.Level() {
		case LEquals, LCompare:
			return PrimitiveBoolean
		}
		switch e.Op {
		case BinOpLogicalOr, BinOpLogicalAnd:
			return commonPrimitiveType(e.Left, e.Right)
		case BinOpComma, BinOpAssign:
			return KnownPrimitiveType(e.Right)
		}
	}
	return PrimitiveUnknown
}

// JoinWithComma returns "a, b". Either side may be missing.
func JoinWithComma(a Expr, b Expr) Expr {
	switch {
	case a.Data == nil:
		return b
	case b.Data == nil:
		return a
	}
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpComma, Left: a, Right: b}}
}

func JoinAllWithComma(all []Expr) Expr {
	var result Expr
	for _, value := range all {
		result = JoinWithComma(result, value)
	}
	return result
}

// IsPrimitiveLiteral reports whether evaluating the expression can never
// have a side effect and always produces the same primitive value.
func IsPrimitiveLiteral(data E) bool {
	switch e := data.(type) {
	case *ENull, *EUndefined, *EString, *EBoolean, *ENumber, *EBigInt:
		return true
	case *EIf:
		return IsPrimitiveLiteral(e.Test.Data) && IsPrimitiveLiteral(e.Yes.Data) && IsPrimitiveLiteral(e.No.Data)
	}
	return false
}

// ToNumberWithoutSideEffects is "+value" for the literals whose numeric
// value is known without evaluating anything
func ToNumberWithoutSideEffects(data E) (float64, bool) {
	switch e := data.(type) {
	case *ENumber:
		return e.Value, true
	case *ENull:
		return 0, true
	case *EUndefined:
		return math.NaN(), true
	case *EBoolean:
		if e.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

type SideEffects uint8

const (
	CouldHaveSideEffects SideEffects = iota
	NoSideEffects
)

// ToBooleanWithSideEffects reports the truthiness of an expression when it
// can be determined statically, and whether evaluating the expression might
// still have side effects that need to be kept.
func ToBooleanWithSideEffects(data E) (boolean bool, sideEffects SideEffects, ok bool) {
	if truthy, ok := literalTruthiness(data); ok {
		return truthy, NoSideEffects, true
	}

	switch e := data.(type) {
	case *EObject, *EArray, *EClass:
		return true, CouldHaveSideEffects, true

	case *EUnary:
		if e.Op == UnOpVoid {
			effects := CouldHaveSideEffects
			if IsPrimitiveLiteral(e.Value.Data) {
				effects = NoSideEffects
			}
			return false, effects, true
		}
		if e.Op == UnOpNot {
			if boolean, effects, ok := ToBooleanWithSideEffects(e.Value.Data); ok {
				return !boolean, effects, true
			}
		}

	case *EBinary:
		// The result of these operators is decided by the right operand in
		// the cases below, but the left operand still runs
		right, _, ok := ToBooleanWithSideEffects(e.Right.Data)
		if !ok {
			break
		}
		switch {
		case e.Op == BinOpComma,
			e.Op == BinOpLogicalOr && right,
			e.Op == BinOpLogicalAnd && !right:
			return right, CouldHaveSideEffects, true
		}
	}
	return false, CouldHaveSideEffects, false
}

// CheckEqualityIfNoSideEffects compares two literals of the same kind. The
// second result is false when the values can't be compared statically.
func CheckEqualityIfNoSideEffects(left E, right E) (equal bool, ok bool) {
	switch l := left.(type) {
	case *ENull:
		_, ok = right.(*ENull)
		return ok, ok
	case *EUndefined:
		_, ok = right.(*EUndefined)
		return ok, ok
	case *EBoolean:
		if r, ok := right.(*EBoolean); ok {
			return l.Value == r.Value, true
		}
	case *ENumber:
		if r, ok := right.(*ENumber); ok {
			return l.Value == r.Value, true
		}
	case *EBigInt:
		if r, ok := right.(*EBigInt); ok {
			return l.Value == r.Value, true
		}
	case *EString:
		if r, ok := right.(*EString); ok {
			return helpers.UTF16EqualsUTF16(l.Value, r.Value), true
		}
	}
	return false, false
}

func sameExprs(a []Expr, b []Expr) bool {
	return slices.EqualFunc(a, b, func(x Expr, y Expr) bool {
		return ValuesLookTheSame(x.Data, y.Data)
	})
}

// ValuesLookTheSame reports whether two expressions are structurally
// identical. It's used to merge "a ? b : b" and "if (a) b; else b;".
func ValuesLookTheSame(left E, right E) bool {
	switch a := left.(type) {
	case *EIdentifier:
		b, ok := right.(*EIdentifier)
		return ok && a.Name == b.Name

	case *EThis:
		_, ok := right.(*EThis)
		return ok

	case *EDot:
		b, ok := right.(*EDot)
		return ok && a.OptionalChain == b.OptionalChain && a.Name == b.Name &&
			ValuesLookTheSame(a.Target.Data, b.Target.Data)

	case *EIndex:
		b, ok := right.(*EIndex)
		return ok && a.OptionalChain == b.OptionalChain &&
			sameExprs([]Expr{a.Target, a.Index}, []Expr{b.Target, b.Index})

	case *EIf:
		b, ok := right.(*EIf)
		return ok && sameExprs([]Expr{a.Test, a.Yes, a.No}, []Expr{b.Test, b.Yes, b.No})

	case *EUnary:
		b, ok := right.(*EUnary)
		return ok && a.Op == b.Op && ValuesLookTheSame(a.Value.Data, b.Value.Data)

	case *EBinary:
		b, ok := right.(*EBinary)
		return ok && a.Op == b.Op && sameExprs([]Expr{a.Left, a.Right}, []Expr{b.Left, b.Right})

	case *ECall:
		b, ok := right.(*ECall)
		return ok && a.OptionalChain == b.OptionalChain &&
			ValuesLookTheSame(a.Target.Data, b.Target.Data) && sameExprs(a.Args, b.Args)

	case *ENumber:
		// "0" and "-0" compare equal but must stay distinct
		if b, ok := right.(*ENumber); ok && a.Value == 0 && b.Value == 0 {
			return math.Signbit(a.Value) == math.Signbit(b.Value)
		}
	}

	equal, ok := CheckEqualityIfNoSideEffects(left, right)
	return ok && equal
}

// StmtsValuesLookTheSame is ValuesLookTheSame for single expression
// statements, which is all the syntax minifier needs to merge branches.
func StmtsValuesLookTheSame(left S, right S) bool {
	a, ok := left.(*SExpr)
	if !ok {
		return false
	}
	b, ok := right.(*SExpr)
	return ok && ValuesLookTheSame(a.Value.Data, b.Value.Data)
}

// IsCanonicalArrayIndex reports whether the string is the exact text that
// "String(n)" would produce for some array index "n". Only then is "x['0']"
// the same property access as "x[0]".
func IsCanonicalArrayIndex(text []uint16) (float64, bool) {
	n := len(text)
	if n == 0 || n > 9 || (n > 1 && text[0] == '0') {
		return 0, false
	}
	value := 0.0
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, false
		}
		value = value*10 + float64(c-'0')
	}
	return value, true
}
