package js_ast

import (
	"github.com/jsprint/jsprint/internal/logger"
)

type Expr struct {
	Loc  logger.Loc
	Data E
}

type E interface{ isExpr() }

// Primary expressions

type EIdentifier struct{ Name string }

func (*EIdentifier) isExpr() {}

// A class-private name such as "#x". It appears wherever a computed key
// could, as the index of an EIndex or the key of a Property.
type EPrivateIdentifier struct{ Name string }

func (*EPrivateIdentifier) isExpr() {}

type EThis struct{}

func (*EThis) isExpr() {}

type ESuper struct{}

func (*ESuper) isExpr() {}

type ENull struct{}

func (*ENull) isExpr() {}

type EUndefined struct{}

func (*EUndefined) isExpr() {}

type EBoolean struct{ Value bool }

func (*EBoolean) isExpr() {}

type ENumber struct {
	Value float64

	// The literal as written. Empty for numbers that did not come from
	// source, such as the result of constant folding.
	Raw string
}

func (*ENumber) isExpr() {}

type EBigInt struct{ Value string }

func (*EBigInt) isExpr() {}

// Strings and no-substitution templates share this node, so string
// optimizations only have one case to check.
type EString struct {
	Value          []uint16
	PreferTemplate bool
}

func (*EString) isExpr() {}

type ERegExp struct{ Value string }

func (*ERegExp) isExpr() {}

// Either the head or a tail of a template has a cooked value or raw text,
// never both. Tagged templates keep the raw text.
type TemplatePart struct {
	Value      Expr
	TailLoc    logger.Loc
	TailCooked []uint16
	TailRaw    string
}

type ETemplate struct {
	TagOrNil   *Expr
	HeadLoc    logger.Loc
	HeadCooked []uint16
	HeadRaw    string
	Parts      []TemplatePart
}

func (*ETemplate) isExpr() {}

// Marks a hole such as the middle of "[a, , b]"
type EMissing struct{}

func (*EMissing) isExpr() {}

// Literals with children

type EArray struct {
	Items        []Expr
	IsSingleLine bool
}

func (*EArray) isExpr() {}

type EObject struct {
	Properties   []Property
	IsSingleLine bool
}

func (*EObject) isExpr() {}

type ESpread struct{ Value Expr }

func (*ESpread) isExpr() {}

type EFunction struct{ Fn Fn }

func (*EFunction) isExpr() {}

type EArrow struct {
	Args []Arg
	Body FnBody

	IsAsync    bool
	HasRestArg bool

	// Print "() => x" instead of "() => { return x }" when the body is a
	// single return statement
	PreferExpr bool
}

func (*EArrow) isExpr() {}

type EClass struct{ Class Class }

func (*EClass) isExpr() {}

// Member access and calls

type OptionalChain uint8

const (
	// "a.b"
	OptionalChainNone OptionalChain = iota

	// "a?.b"
	OptionalChainStart

	// The ".c" in "a?.b.c". In "(a?.b).c" the ".c" is OptionalChainNone.
	OptionalChainContinue
)

type EDot struct {
	Target        Expr
	Name          string
	NameLoc       logger.Loc
	OptionalChain OptionalChain
}

func (*EDot) isExpr() {}

type EIndex struct {
	Target        Expr
	Index         Expr
	OptionalChain OptionalChain
}

func (*EIndex) isExpr() {}

type ECall struct {
	Target        Expr
	Args          []Expr
	CloseParenLoc logger.Loc
	OptionalChain OptionalChain
}

func (*ECall) isExpr() {}

type ENew struct {
	Target Expr
	Args   []Expr

	// The source wrote "new x" rather than "new x()"
	HasNoArgList bool
}

func (*ENew) isExpr() {}

type ENewTarget struct{ Range logger.Range }

func (*ENewTarget) isExpr() {}

type EImportMeta struct{ RangeLen int32 }

func (*EImportMeta) isExpr() {}

// "import(path)" or "import(path, options)"
type EImportCall struct {
	Expr          Expr
	OptionsOrNil  *Expr
	CloseParenLoc logger.Loc
}

func (*EImportCall) isExpr() {}

// Operators

type EUnary struct {
	Op    OpCode
	Value Expr
}

func (*EUnary) isExpr() {}

// Covers arithmetic, comparison, logical, comma, and assignment operators.
// The printer views all of them through one binaryish shape.
type EBinary struct {
	Left  Expr
	Right Expr
	Op    OpCode
}

func (*EBinary) isExpr() {}

// "test ? yes : no"
type EIf struct {
	Test Expr
	Yes  Expr
	No   Expr
}

func (*EIf) isExpr() {}

type EAwait struct{ Value Expr }

func (*EAwait) isExpr() {}

type EYield struct {
	ValueOrNil *Expr
	IsStar     bool
}

func (*EYield) isExpr() {}
