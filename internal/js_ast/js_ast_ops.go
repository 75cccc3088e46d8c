package js_ast

// L is a precedence tier. A node printed where the surrounding grammar
// demands a tier at or above its own must be parenthesized.
//
// https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/Operators/Operator_Precedence
type L int

const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

// OpCode names every unary and binary operator. The order matters: the
// classification methods below compare against the group boundaries.
type OpCode uint8

const (
	UnOpPos    OpCode = iota // +a
	UnOpNeg                  // -a
	UnOpCpl                  // ~a
	UnOpNot                  // !a
	UnOpVoid                 // void a
	UnOpTypeof               // typeof a
	UnOpDelete               // delete a
	UnOpPreDec               // --a
	UnOpPreInc               // ++a

	UnOpPostDec // a--
	UnOpPostInc // a++

	// Binary operators that group to the left, except "**"
	BinOpAdd
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpRem
	BinOpPow
	BinOpLt
	BinOpLe
	BinOpGt
	BinOpGe
	BinOpIn
	BinOpInstanceof
	BinOpShl
	BinOpShr
	BinOpUShr
	BinOpLooseEq
	BinOpLooseNe
	BinOpStrictEq
	BinOpStrictNe
	BinOpNullishCoalescing
	BinOpLogicalOr
	BinOpLogicalAnd
	BinOpBitwiseOr
	BinOpBitwiseAnd
	BinOpBitwiseXor

	BinOpComma

	// Assignments, all of which group to the right
	BinOpAssign
	BinOpAddAssign
	BinOpSubAssign
	BinOpMulAssign
	BinOpDivAssign
	BinOpRemAssign
	BinOpPowAssign
	BinOpShlAssign
	BinOpShrAssign
	BinOpUShrAssign
	BinOpBitwiseOrAssign
	BinOpBitwiseAndAssign
	BinOpBitwiseXorAssign
	BinOpNullishCoalescingAssign
	BinOpLogicalOrAssign
	BinOpLogicalAndAssign

	opCount
)

var opText = [opCount]string{
	UnOpPos: "+", UnOpNeg: "-", UnOpCpl: "~", UnOpNot: "!",
	UnOpVoid: "void", UnOpTypeof: "typeof", UnOpDelete: "delete",
	UnOpPreDec: "--", UnOpPreInc: "++", UnOpPostDec: "--", UnOpPostInc: "++",

	BinOpAdd: "+", BinOpSub: "-", BinOpMul: "*", BinOpDiv: "/", BinOpRem: "%", BinOpPow: "**",
	BinOpLt: "<", BinOpLe: "<=", BinOpGt: ">", BinOpGe: ">=", BinOpIn: "in", BinOpInstanceof: "instanceof",
	BinOpShl: "<<", BinOpShr: ">>", BinOpUShr: ">>>",
	BinOpLooseEq: "==", BinOpLooseNe: "!=", BinOpStrictEq: "===", BinOpStrictNe: "!==",
	BinOpNullishCoalescing: "??", BinOpLogicalOr: "||", BinOpLogicalAnd: "&&",
	BinOpBitwiseOr: "|", BinOpBitwiseAnd: "&", BinOpBitwiseXor: "^",
	BinOpComma: ",",

	BinOpAssign: "=", BinOpAddAssign: "+=", BinOpSubAssign: "-=", BinOpMulAssign: "*=",
	BinOpDivAssign: "/=", BinOpRemAssign: "%=", BinOpPowAssign: "**=",
	BinOpShlAssign: "<<=", BinOpShrAssign: ">>=", BinOpUShrAssign: ">>>=",
	BinOpBitwiseOrAssign: "|=", BinOpBitwiseAndAssign: "&=", BinOpBitwiseXorAssign: "^=",
	BinOpNullishCoalescingAssign: "??=", BinOpLogicalOrAssign: "||=", BinOpLogicalAndAssign: "&&=",
}

// Text is the operator as it is written in source
func (op OpCode) Text() string {
	return opText[op]
}

// IsKeyword reports whether the operator is spelled as a word and so needs
// spaces around it to stay separate from neighboring identifiers.
func (op OpCode) IsKeyword() bool {
	switch op {
	case UnOpVoid, UnOpTypeof, UnOpDelete, BinOpIn, BinOpInstanceof:
		return true
	}
	return false
}

// Level is the precedence tier of the operator
func (op OpCode) Level() L {
	switch {
	case op < UnOpPostDec:
		return LPrefix
	case op < BinOpAdd:
		return LPostfix
	case op >= BinOpAssign:
		return LAssign
	}

	switch op {
	case BinOpAdd, BinOpSub:
		return LAdd
	case BinOpMul, BinOpDiv, BinOpRem:
		return LMultiply
	case BinOpPow:
		return LExponentiation
	case BinOpLt, BinOpLe, BinOpGt, BinOpGe, BinOpIn, BinOpInstanceof:
		return LCompare
	case BinOpShl, BinOpShr, BinOpUShr:
		return LShift
	case BinOpLooseEq, BinOpLooseNe, BinOpStrictEq, BinOpStrictNe:
		return LEquals
	case BinOpNullishCoalescing:
		return LNullishCoalescing
	case BinOpLogicalOr:
		return LLogicalOr
	case BinOpLogicalAnd:
		return LLogicalAnd
	case BinOpBitwiseOr:
		return LBitwiseOr
	case BinOpBitwiseXor:
		return LBitwiseXor
	case BinOpBitwiseAnd:
		return LBitwiseAnd
	default:
		return LComma
	}
}

func (op OpCode) IsPrefix() bool {
	return op < UnOpPostDec
}

func (op OpCode) IsLeftAssociative() bool {
	return op >= BinOpAdd && op < BinOpComma && op != BinOpPow
}

func (op OpCode) IsRightAssociative() bool {
	return op >= BinOpAssign || op == BinOpPow
}

// IsShortCircuit reports whether the operator belongs to the logical family
// ("??", "||", "&&"), which may skip evaluating its right operand.
func (op OpCode) IsShortCircuit() bool {
	switch op {
	case BinOpNullishCoalescing, BinOpLogicalOr, BinOpLogicalAnd,
		BinOpNullishCoalescingAssign, BinOpLogicalOrAssign, BinOpLogicalAndAssign:
		return true
	}
	return false
}

type AssignTarget uint8

const (
	AssignTargetNone    AssignTarget = iota
	AssignTargetReplace              // "a = b"
	AssignTargetUpdate               // "a += b"
)

func (op OpCode) UnaryAssignTarget() AssignTarget {
	if op >= UnOpPreDec && op <= UnOpPostInc {
		return AssignTargetUpdate
	}
	return AssignTargetNone
}

func (op OpCode) BinaryAssignTarget() AssignTarget {
	switch {
	case op == BinOpAssign:
		return AssignTargetReplace
	case op > BinOpAssign:
		return AssignTargetUpdate
	default:
		return AssignTargetNone
	}
}
