package js_ast

import (
	"github.com/jsprint/jsprint/internal/logger"
)

// The syntax tree comes in three closed families: expressions (E),
// statements (S), and binding patterns (B). Each family is a sealed
// interface whose marker method is declared next to every variant, so a
// type switch over a family lists every shape the printer has to handle.
//
// The parser builds a tree, the syntax minifier may rewrite it, and the
// printer only reads it. Identifiers are stored by name. When a pass renames
// a binding, the printer sees that the printed name no longer matches the
// source text at the identifier's location and records the original name
// in the source map.

type AST struct {
	Hashbang string
	Stmts    []Stmt

	// Every comment in the file, sorted by position. The printer only keeps
	// legal comments and annotations.
	Comments []Comment

	ApproximateLineCount int32
}

type CommentKind uint8

const (
	CommentLine CommentKind = iota
	CommentBlock

	// "/*! ... */", "//! ...", or anything containing "@license" or "@preserve"
	CommentLegal

	// "/* @__PURE__ */" or "/* #__PURE__ */"
	CommentAnnotatePure

	// "/* @__NO_SIDE_EFFECTS__ */" or "/* #__NO_SIDE_EFFECTS__ */"
	CommentAnnotateNoSideEffects
)

func (kind CommentKind) IsAnnotation() bool {
	return kind == CommentAnnotatePure || kind == CommentAnnotateNoSideEffects
}

// Comment is one comment from the source text. Range covers the comment
// including its delimiters and Text is the exact source text of that range.
type Comment struct {
	Range logger.Range
	Kind  CommentKind
	Text  string
}

type LocName struct {
	Loc  logger.Loc
	Name string
}

// Functions, arrows, and methods

type Arg struct {
	Binding      Binding
	DefaultOrNil *Expr
}

type FnBody struct {
	Loc   logger.Loc
	Block SBlock
}

type Fn struct {
	Name         *LocName
	OpenParenLoc logger.Loc
	Args         []Arg
	Body         FnBody

	IsAsync     bool
	IsGenerator bool
	HasRestArg  bool
}

// Object literals and class bodies share one property type

type PropertyKind uint8

const (
	PropertyNormal PropertyKind = iota
	PropertyGet
	PropertySet
	PropertySpread
	PropertyClassStaticBlock
)

type ClassStaticBlock struct {
	Loc   logger.Loc
	Block SBlock
}

type Property struct {
	ClassStaticBlock *ClassStaticBlock

	Key Expr

	// Nil for class fields without an initializer and for shorthand
	// properties in patterns
	ValueOrNil *Expr

	// The "= 1" in "({a = 1} = {})" and in "class Foo { a = 1 }"
	InitializerOrNil *Expr

	Kind            PropertyKind
	IsComputed      bool
	IsMethod        bool
	IsStatic        bool
	WasShorthand    bool
	PreferQuotedKey bool
}

type Class struct {
	ClassKeyword  logger.Range
	Name          *LocName
	ExtendsOrNil  *Expr
	BodyLoc       logger.Loc
	CloseBraceLoc logger.Loc
	Properties    []Property
}

// Binding patterns

type Binding struct {
	Loc  logger.Loc
	Data B
}

type B interface{ isBinding() }

type BMissing struct{}

func (*BMissing) isBinding() {}

type BIdentifier struct{ Name string }

func (*BIdentifier) isBinding() {}

type ArrayBinding struct {
	Binding           Binding
	DefaultValueOrNil *Expr
}

type BArray struct {
	Items        []ArrayBinding
	HasSpread    bool
	IsSingleLine bool
}

func (*BArray) isBinding() {}

type PropertyBinding struct {
	Key               Expr
	Value             Binding
	DefaultValueOrNil *Expr
	IsComputed        bool
	IsSpread          bool
	PreferQuotedKey   bool
}

type BObject struct {
	Properties   []PropertyBinding
	IsSingleLine bool
}

func (*BObject) isBinding() {}

// Declarations and module clauses

type Decl struct {
	Binding    Binding
	ValueOrNil *Expr
}

type ClauseItem struct {
	// The exported name for exports and the imported name for imports. It
	// may be a string such as "a b".
	Alias    string
	AliasLoc logger.Loc

	// The local binding, which may differ from the alias ("a as b")
	Name LocName
}
