package js_ast

import (
	"github.com/jsprint/jsprint/internal/logger"
)

type Stmt struct {
	Loc  logger.Loc
	Data S
}

type S interface{ isStmt() }

// Simple statements

type SEmpty struct{}

func (*SEmpty) isStmt() {}

type SDebugger struct{}

func (*SDebugger) isStmt() {}

type SComment struct{ Text string }

func (*SComment) isStmt() {}

type SDirective struct {
	Value []uint16

	// The quote the directive was written with. Directives compare by raw
	// text, so the printer keeps this quote whenever the value allows it.
	Quote byte
}

func (*SDirective) isStmt() {}

type SExpr struct{ Value Expr }

func (*SExpr) isStmt() {}

type LocalKind uint8

const (
	LocalVar LocalKind = iota
	LocalLet
	LocalConst
)

type SLocal struct {
	Decls    []Decl
	Kind     LocalKind
	IsExport bool
}

func (*SLocal) isStmt() {}

type SFunction struct {
	Fn       Fn
	IsExport bool
}

func (*SFunction) isStmt() {}

type SClass struct {
	Class    Class
	IsExport bool
}

func (*SClass) isStmt() {}

// Jumps

type SReturn struct{ ValueOrNil *Expr }

func (*SReturn) isStmt() {}

type SThrow struct{ Value Expr }

func (*SThrow) isStmt() {}

type SBreak struct{ Label *LocName }

func (*SBreak) isStmt() {}

type SContinue struct{ Label *LocName }

func (*SContinue) isStmt() {}

// Compound statements

type SBlock struct {
	Stmts         []Stmt
	CloseBraceLoc logger.Loc
}

func (*SBlock) isStmt() {}

type SLabel struct {
	Name LocName
	Stmt Stmt
}

func (*SLabel) isStmt() {}

type SIf struct {
	Test    Expr
	Yes     Stmt
	NoOrNil *Stmt
}

func (*SIf) isStmt() {}

// The init of a for loop is either an SLocal or an SExpr
type SFor struct {
	InitOrNil   *Stmt
	TestOrNil   *Expr
	UpdateOrNil *Expr
	Body        Stmt
}

func (*SFor) isStmt() {}

type SForIn struct {
	Init  Stmt
	Value Expr
	Body  Stmt
}

func (*SForIn) isStmt() {}

type SForOf struct {
	Init    Stmt
	Value   Expr
	Body    Stmt
	IsAwait bool
}

func (*SForOf) isStmt() {}

type SWhile struct {
	Test Expr
	Body Stmt
}

func (*SWhile) isStmt() {}

type SDoWhile struct {
	Body Stmt
	Test Expr
}

func (*SDoWhile) isStmt() {}

type SWith struct {
	Value   Expr
	BodyLoc logger.Loc
	Body    Stmt
}

func (*SWith) isStmt() {}

type Catch struct {
	BindingOrNil *Binding
	Block        SBlock
	Loc          logger.Loc
	BlockLoc     logger.Loc
}

type Finally struct {
	Loc   logger.Loc
	Block SBlock
}

type STry struct {
	Block        SBlock
	CatchOrNil   *Catch
	FinallyOrNil *Finally
	BlockLoc     logger.Loc
}

func (*STry) isStmt() {}

// A nil value makes this the "default" clause
type Case struct {
	ValueOrNil *Expr
	Body       []Stmt
	Loc        logger.Loc
}

type SSwitch struct {
	Test          Expr
	Cases         []Case
	BodyLoc       logger.Loc
	CloseBraceLoc logger.Loc
}

func (*SSwitch) isStmt() {}

// Modules

// One node covers every import form:
//
//	import 'path'
//	import {a, b} from 'path'
//	import * as ns from 'path'
//	import d, {a, b} from 'path'
//	import d, * as ns from 'path'
//
// Items and StarNameOrNil are never both set.
type SImport struct {
	DefaultName   *LocName
	Items         *[]ClauseItem
	StarNameOrNil *LocName
	Path          string
	PathLoc       logger.Loc
	IsSingleLine  bool
}

func (*SImport) isStmt() {}

type SExportClause struct {
	Items        []ClauseItem
	IsSingleLine bool
}

func (*SExportClause) isStmt() {}

type SExportFrom struct {
	Items        []ClauseItem
	Path         string
	PathLoc      logger.Loc
	IsSingleLine bool
}

func (*SExportFrom) isStmt() {}

type ExportStarAlias struct {
	Loc  logger.Loc
	Name string
}

type SExportStar struct {
	AliasOrNil *ExportStarAlias
	Path       string
	PathLoc    logger.Loc
}

func (*SExportStar) isStmt() {}

// The value is an SExpr for "export default <expr>", or an SFunction or
// SClass for the declaration forms
type SExportDefault struct {
	DefaultLoc logger.Loc
	Value      Stmt
}

func (*SExportDefault) isStmt() {}
