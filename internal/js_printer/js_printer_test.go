package js_printer

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/jsprint/jsprint/internal/js_ast"
	"github.com/jsprint/jsprint/internal/js_parser"
	"github.com/jsprint/jsprint/internal/logger"
	"github.com/jsprint/jsprint/internal/sourcemap"
	"github.com/jsprint/jsprint/internal/test"
)

func parseForTest(t *testing.T, contents string, minifySyntax bool) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{MinifySyntax: minifySyntax})
	msgs := log.Done()
	text := ""
	for _, msg := range msgs {
		text += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	test.AssertEqualWithDiff(t, text, "")
	if !ok {
		t.Fatal("Parse error")
	}
	return tree
}

func expectPrintedCommon(t *testing.T, name string, contents string, expected string, options Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		tree := parseForTest(t, contents, options.MinifySyntax)
		js := Print(tree, test.SourceForTest(contents), options).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, contents, expected, Options{})
}

func expectPrintedMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [minified]", contents, expected, Options{
		MinifyWhitespace: true,
	})
}

func expectPrintedMangle(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [mangled]", contents, expected, Options{
		MinifySyntax: true,
	})
}

func expectPrintedMangleMinify(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [mangled, minified]", contents, expected, Options{
		MinifySyntax:     true,
		MinifyWhitespace: true,
	})
}

func expectPrintedASCII(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [ascii]", contents, expected, Options{
		ASCIIOnly: true,
	})
}

func expectPrintedAnnotations(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [annotations]", contents, expected, Options{
		PreserveAnnotateComments: true,
	})
}

// Print a statement list that was built by hand instead of parsed
func expectPrintedStmts(t *testing.T, stmts []js_ast.Stmt, expected string, options Options) {
	t.Helper()
	js := Print(js_ast.AST{Stmts: stmts}, test.SourceForTest(""), options).JS
	test.AssertEqualWithDiff(t, string(js), expected)
}

func exprStmt(data js_ast.E) js_ast.Stmt {
	return js_ast.Stmt{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: data}}}
}

func TestNumber(t *testing.T) {
	expectPrinted(t, "x = 0.5", "x = 0.5;\n")
	expectPrinted(t, "x = 1e3", "x = 1e3;\n")
	expectPrinted(t, "x = 0xFF", "x = 0xFF;\n")
	expectPrinted(t, "x = 1_000", "x = 1_000;\n")
	expectPrinted(t, "x = 1..toString()", "x = 1..toString();\n")
	expectPrinted(t, "x = (-1).toString()", "x = (-1).toString();\n")

	expectPrintedMinify(t, "x = 0.5", "x=.5;")
	expectPrintedMinify(t, "x = 1000", "x=1e3;")
	expectPrintedMinify(t, "x = 123456789", "x=123456789;")
	expectPrintedMinify(t, "x = 0.001", "x=.001;")
	expectPrintedMinify(t, "x = 0.0001", "x=1e-4;")
	expectPrintedMinify(t, "x = 1.5e10", "x=15e9;")
	expectPrintedMinify(t, "x = 0xFF", "x=255;")
	expectPrintedMinify(t, "x = 1e12", "x=1e12;")
	expectPrintedMinify(t, "x = 0xFFFFFFFFFFFF", "x=0xffffffffffff;")
	expectPrintedMinify(t, "x = 1..toString()", "x=1 .toString();")
	expectPrintedMinify(t, "x = 1.5.toString()", "x=1.5.toString();")
	expectPrintedMinify(t, "x = 1e3.toString()", "x=1e3.toString();")

	expectPrintedMangle(t, "x = 0.5", "x = 0.5;\n")
	expectPrintedMangle(t, "x = 1000", "x = 1e3;\n")
}

func TestNumberSpecialValues(t *testing.T) {
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.ENumber{Value: math.NaN()})}, "NaN;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.ENumber{Value: math.Inf(1)})}, "Infinity;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.ENumber{Value: math.Inf(-1)})}, "-Infinity;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.ENumber{Value: math.Inf(1)})}, "1 / 0;\n", Options{MinifySyntax: true})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.ENumber{Value: math.Inf(-1)})}, "-1/0;", Options{MinifySyntax: true, MinifyWhitespace: true})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.ENumber{Value: -1})}, "-1;\n", Options{})

	// Negative numbers and infinities need parentheses inside tighter operators
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EDot{
		Target: js_ast.Expr{Data: &js_ast.ENumber{Value: -1}},
		Name:   "x",
	})}, "(-1).x;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EBinary{
		Op:    js_ast.BinOpDiv,
		Left:  js_ast.Expr{Data: &js_ast.EIdentifier{Name: "a"}},
		Right: js_ast.Expr{Data: &js_ast.ENumber{Value: math.Inf(1)}},
	})}, "a/(1/0);", Options{MinifySyntax: true, MinifyWhitespace: true})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EUnary{
		Op:    js_ast.UnOpNeg,
		Value: js_ast.Expr{Data: &js_ast.ENumber{Value: -1}},
	})}, "- -1;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EBinary{
		Op:    js_ast.BinOpPow,
		Left:  js_ast.Expr{Data: &js_ast.ENumber{Value: -2}},
		Right: js_ast.Expr{Data: &js_ast.ENumber{Value: 2}},
	})}, "(-2) ** 2;\n", Options{})
}

func TestString(t *testing.T) {
	expectPrinted(t, "x = 'a'", "x = \"a\";\n")
	expectPrinted(t, "x = \"'\"", "x = \"'\";\n")
	expectPrinted(t, "x = '\"'", "x = '\"';\n")
	expectPrinted(t, "x = '\"\\''", "x = `\"'`;\n")
	expectPrinted(t, "x = '\\0'", "x = \"\\0\";\n")
	expectPrinted(t, "x = '\\x001'", "x = \"\\x001\";\n")
	expectPrinted(t, "x = '\\x07\\b\\f\\n\\r\\t\\v'", "x = \"\\x07\\b\\f\\n\\r\\t\\v\";\n")
	expectPrinted(t, "x = '\\u2028\\u2029\\uFEFF'", "x = \"\\u2028\\u2029\\uFEFF\";\n")
	expectPrinted(t, "x = '\\uD800'", "x = \"\\uD800\";\n")
	expectPrinted(t, "x = '</script>'", "x = \"<\\/script>\";\n")
	expectPrinted(t, "x = '</SCRIPT>'", "x = \"<\\/SCRIPT>\";\n")
	expectPrinted(t, "x = '\\u00E9'", "x = \"\u00E9\";\n")
	expectPrinted(t, "x = `a`", "x = `a`;\n")
	expectPrinted(t, "x = `${a}`", "x = `${a}`;\n")

	expectPrintedMangle(t, "x = `a`", "x = \"a\";\n")
	expectPrinted(t, "x = '\\n\\n\"\\''", "x = `\n\n\"'`;\n")
	expectPrinted(t, "x = '\\n\"'", "x = '\\n\"';\n")
	expectPrintedMangle(t, "x = '\\n\"'", "x = `\n\"`;\n")
}

func TestASCIIOnly(t *testing.T) {
	expectPrintedASCII(t, "x = '\\u00E9'", "x = \"\\xE9\";\n")
	expectPrintedASCII(t, "x = '\\u03C0'", "x = \"\\u03C0\";\n")
	expectPrintedASCII(t, "x = '\\u{1F600}'", "x = \"\\u{1F600}\";\n")
	expectPrintedASCII(t, "\u03C0 = 1", "\\u03C0 = 1;\n")
	expectPrintedASCII(t, "x = {\u03C0: 1}", "x = { \\u03C0: 1 };\n")
	expectPrintedASCII(t, "x = `\u00E9${a}`", "x = `\\xE9${a}`;\n")
	expectPrintedASCII(t, "x = tag`\u00E9${a}`", "x = tag`\u00E9${a}`;\n")

	expectPrinted(t, "x = '\\u{1F600}'", "x = \"\U0001F600\";\n")
}

func TestTemplate(t *testing.T) {
	expectPrinted(t, "x = `a${b}c`", "x = `a${b}c`;\n")
	expectPrinted(t, "x = `\\n${b}\\u0041`", "x = `\\n${b}\\u0041`;\n")
	expectPrinted(t, "x = tag`\\n${b}\\x41`", "x = tag`\\n${b}\\x41`;\n")
	expectPrinted(t, "x = a.b`c`", "x = a.b`c`;\n")
	expectPrinted(t, "x = (a?.b)`c`", "x = (a?.b)`c`;\n")
	expectPrinted(t, "x = `a${`b${c}`}`", "x = `a${`b${c}`}`;\n")

	expectPrintedMangle(t, "x = `a${b}c`", "x = `a${b}c`;\n")
}

func TestRegExp(t *testing.T) {
	expectPrinted(t, "x = /a/g", "x = /a/g;\n")
	expectPrintedMinify(t, "x = a / /b/", "x=a/ /b/;")
	expectPrintedMinify(t, "x = a < /script>/", "x=a< /script>/;")
	expectPrintedMinify(t, "x = /a/ in b", "x=/a/ in b;")
}

func TestOperators(t *testing.T) {
	expectPrinted(t, "a + b", "a + b;\n")
	expectPrinted(t, "a - (b - c)", "a - (b - c);\n")
	expectPrinted(t, "(a - b) - c", "a - b - c;\n")
	expectPrinted(t, "a * (b + c)", "a * (b + c);\n")
	expectPrinted(t, "(a * b) + c", "a * b + c;\n")
	expectPrinted(t, "a = b = c", "a = b = c;\n")
	expectPrinted(t, "a ** b ** c", "a ** b ** c;\n")
	expectPrinted(t, "(a ** b) ** c", "(a ** b) ** c;\n")
	expectPrinted(t, "(-a) ** b", "(-a) ** b;\n")
	expectPrinted(t, "(++a) ** b", "++a ** b;\n")
	expectPrinted(t, "(await a) ** b", "(await a) ** b;\n")
	expectPrinted(t, "a ?? (b || c)", "a ?? (b || c);\n")
	expectPrinted(t, "(a ?? b) || c", "(a ?? b) || c;\n")
	expectPrinted(t, "(a && b) ?? c", "(a && b) ?? c;\n")
	expectPrinted(t, "a ? b : c ? d : e", "a ? b : c ? d : e;\n")
	expectPrinted(t, "(a ? b : c) ? d : e", "(a ? b : c) ? d : e;\n")
	expectPrinted(t, "a, b, c", "a, b, c;\n")
	expectPrinted(t, "x = (a, b)", "x = (a, b);\n")
	expectPrinted(t, "typeof a", "typeof a;\n")
	expectPrinted(t, "void 0", "void 0;\n")
	expectPrinted(t, "delete a.b", "delete a.b;\n")
	expectPrinted(t, "a++ + b", "a++ + b;\n")
	expectPrinted(t, "for (var i = (a in b); ; ) ;", "for (var i = (a in b); ; )\n  ;\n")
	expectPrinted(t, "for ((a in b); ; ) ;", "for ((a in b); ; )\n  ;\n")
	expectPrinted(t, "for (x = () => (a in b); ; ) ;", "for (x = () => (a in b); ; )\n  ;\n")
	expectPrinted(t, "class A { #x; m() { return #x in this } }", "class A {\n  #x;\n  m() {\n    return #x in this;\n  }\n}\n")

	expectPrintedMinify(t, "a + +b", "a+ +b;")
	expectPrintedMinify(t, "a - -b", "a- -b;")
	expectPrintedMinify(t, "a + ++b", "a+ ++b;")
	expectPrintedMinify(t, "a - --b", "a- --b;")
	expectPrintedMinify(t, "a++ + b", "a+++b;")
	expectPrintedMinify(t, "a-- > b", "a-- >b;")
	expectPrintedMinify(t, "a < !--b", "a<! --b;")
	expectPrintedMinify(t, "typeof a", "typeof a;")
	expectPrintedMinify(t, "a in b", "a in b;")
	expectPrintedMinify(t, "a instanceof b", "a instanceof b;")
}

func TestDeeplyNestedBinary(t *testing.T) {
	n := 10000
	contents := strings.Repeat("a + ", n) + "a"
	expectPrintedCommon(t, "deep", contents, contents+";\n", Options{})
	expectPrintedCommon(t, "deep [minified]", contents, strings.Repeat("a+", n)+"a;", Options{MinifyWhitespace: true})
}

func TestCallAndNew(t *testing.T) {
	expectPrinted(t, "new Foo", "new Foo();\n")
	expectPrinted(t, "new Foo(a, b)", "new Foo(a, b);\n")
	expectPrinted(t, "new a.b()", "new a.b();\n")
	expectPrinted(t, "new (a())()", "new (a())();\n")
	expectPrinted(t, "new (a.b())()", "new (a.b())();\n")
	expectPrinted(t, "(new Foo)()", "new Foo()();\n")
	expectPrinted(t, "(0, a.b)()", "(0, a.b)();\n")
	expectPrinted(t, "(function() {})()", "(function() {\n})();\n")
	expectPrinted(t, "(() => {})()", "(() => {\n})();\n")
	expectPrinted(t, "import('x')", "import(\"x\");\n")
	expectPrinted(t, "new.target", "new.target;\n")
	expectPrinted(t, "import.meta", "import.meta;\n")

	expectPrintedMinify(t, "new Foo", "new Foo;")
	expectPrintedMinify(t, "new Foo()", "new Foo;")
	expectPrintedMinify(t, "new Foo().x", "new Foo().x;")
	expectPrintedMinify(t, "new Foo(a)", "new Foo(a);")

	expectPrintedMangle(t, "(1 ? a.b : c)()", "(0, a.b)();\n")
	expectPrintedMangle(t, "(0 ? c : a[b])()", "(0, a[b])();\n")
	expectPrintedMangle(t, "(1 ? eval : c)(x)", "(0, eval)(x);\n")
	expectPrintedMangle(t, "(1 ? a : c)()", "a();\n")
	expectPrintedMangle(t, "(1 ? a.b : c)`x`", "(0, a.b)`x`;\n")
}

func TestOptionalChain(t *testing.T) {
	expectPrinted(t, "a?.b", "a?.b;\n")
	expectPrinted(t, "a?.[b]", "a?.[b];\n")
	expectPrinted(t, "a?.(b)", "a?.(b);\n")
	expectPrinted(t, "a?.b.c", "a?.b.c;\n")
	expectPrinted(t, "(a?.b).c", "(a?.b).c;\n")
	expectPrinted(t, "(a?.b)()", "(a?.b)();\n")
	expectPrinted(t, "a?.b()", "a?.b();\n")
	expectPrinted(t, "new (a?.b)()", "new (a?.b)();\n")
	expectPrinted(t, "class A { #x; m() { return this?.#x } }", "class A {\n  #x;\n  m() {\n    return this?.#x;\n  }\n}\n")
}

func TestIndex(t *testing.T) {
	expectPrinted(t, "x['0']", "x[\"0\"];\n")
	expectPrinted(t, "x['y']", "x[\"y\"];\n")
	expectPrinted(t, "x[0]", "x[0];\n")

	expectPrintedMangle(t, "x['0']", "x[0];\n")
	expectPrintedMangle(t, "x['y']", "x.y;\n")
	expectPrintedMangle(t, "x['y-z']", "x[\"y-z\"];\n")
	expectPrintedMangle(t, "x['01']", "x[\"01\"];\n")
}

func TestMangle(t *testing.T) {
	expectPrintedMangle(t, "x = 1 ? a : b", "x = a;\n")
	expectPrintedMangle(t, "x = 0 ? a : b", "x = b;\n")
	expectPrintedMangle(t, "a ? b : b", "a, b;\n")
	expectPrintedMangle(t, "x = !a ? b : c", "x = a ? c : b;\n")
	expectPrintedMangle(t, "x = !(a == b)", "x = a != b;\n")
	expectPrintedMangle(t, "x = true", "x = !0;\n")
	expectPrintedMangle(t, "x = false", "x = !1;\n")
	expectPrintedMangle(t, "x = true ** 2", "x = (!0) ** 2;\n")
	expectPrintedMangle(t, "x = undefined", "x = void 0;\n")
	expectPrintedMangle(t, "x = undefined ** 2", "x = (void 0) ** 2;\n")
	expectPrintedMangle(t, "while (x) y()", "for (; x; )\n  y();\n")
	expectPrintedMangle(t, "while (true) y()", "for (; ; )\n  y();\n")
	expectPrintedMangle(t, "if (a) {} else b()", "if (!a)\n  b();\n")
	expectPrintedMangle(t, "if (a) b(); else b();", "a, b();\n")
	expectPrintedMangle(t, "if (a) { if (b) c() } else d()", "if (a) {\n  if (b)\n    c();\n} else\n  d();\n")
	expectPrintedMangle(t, "x = {['y']: 1}", "x = { y: 1 };\n")
	expectPrintedMangle(t, "x = {'y': 1}", "x = { y: 1 };\n")

	expectPrintedMangleMinify(t, "if (a) { if (b) c() } else d()", "if(a){if(b)c()}else d();")
	expectPrintedMangleMinify(t, "x = true", "x=!0;")
	expectPrintedMangleMinify(t, "while (x) { a(); b() }", "for(;x;){a();b()}")
}

func TestObject(t *testing.T) {
	expectPrinted(t, "x = {}", "x = {};\n")
	expectPrinted(t, "x = {a: 1, 'b-c': 2}", "x = { a: 1, \"b-c\": 2 };\n")
	expectPrinted(t, "x = {'a': 1}", "x = { \"a\": 1 };\n")
	expectPrinted(t, "x = {a}", "x = { a };\n")
	expectPrinted(t, "x = {a: a}", "x = { a };\n")
	expectPrinted(t, "x = {__proto__}", "x = { __proto__ };\n")
	expectPrinted(t, "x = {__proto__: __proto__}", "x = { __proto__: __proto__ };\n")
	expectPrinted(t, "x = {...a, [b]: c}", "x = { ...a, [b]: c };\n")
	expectPrinted(t, "x = {1: a, 2n: b}", "x = { 1: a, 2n: b };\n")
	expectPrinted(t, "x = {a() {}, get b() {}, set b(v) {}}", "x = { a() {\n}, get b() {\n}, set b(v) {\n} };\n")
	expectPrinted(t, "x = {async a() {}, *b() {}, async *c() {}}", "x = { async a() {\n}, *b() {\n}, async *c() {\n} };\n")
	expectPrinted(t, "x = {\n  a: 1,\n  b: 2\n}", "x = {\n  a: 1,\n  b: 2\n};\n")
	expectPrinted(t, "({} = x)", "({} = x);\n")
	expectPrinted(t, "({a} = x)", "({ a } = x);\n")
	expectPrinted(t, "({}).x", "({}).x;\n")
	expectPrinted(t, "x = () => ({})", "x = () => ({});\n")
	expectPrinted(t, "x = () => ({}.y)", "x = () => ({}).y;\n")

	expectPrintedMinify(t, "x = {a: 1, b}", "x={a:1,b};")
}

func TestArray(t *testing.T) {
	expectPrinted(t, "x = []", "x = [];\n")
	expectPrinted(t, "x = [1, 2]", "x = [1, 2];\n")
	expectPrinted(t, "x = [1, , 2]", "x = [1, , 2];\n")
	expectPrinted(t, "x = [a, ,]", "x = [a, ,];\n")
	expectPrinted(t, "x = [...a]", "x = [...a];\n")
	expectPrinted(t, "x = [\n  1,\n  2\n]", "x = [\n  1,\n  2\n];\n")

	expectPrintedMinify(t, "x = [1, , 2]", "x=[1,,2];")
}

func TestBindings(t *testing.T) {
	expectPrinted(t, "let [a, b = 1, ...c] = x", "let [a, b = 1, ...c] = x;\n")
	expectPrinted(t, "let [, a] = x", "let [, a] = x;\n")
	expectPrinted(t, "let [a, ,] = x", "let [a, ,] = x;\n")
	expectPrinted(t, "let {a, b: c, d = 1, ...e} = x", "let { a, b: c, d = 1, ...e } = x;\n")
	expectPrinted(t, "let {'a-b': c, [d]: e} = x", "let { \"a-b\": c, [d]: e } = x;\n")
	expectPrinted(t, "let {} = x, [] = y", "let {} = x, [] = y;\n")
	expectPrinted(t, "function f(a, b = 1, ...c) {}", "function f(a, b = 1, ...c) {\n}\n")

	expectPrintedMinify(t, "let {a, b: c} = x", "let{a,b:c}=x;")
	expectPrintedMinify(t, "let [a, b] = x", "let[a,b]=x;")
}

func TestFunction(t *testing.T) {
	expectPrinted(t, "function f() {}", "function f() {\n}\n")
	expectPrinted(t, "function* f() {}", "function* f() {\n}\n")
	expectPrinted(t, "async function f() {}", "async function f() {\n}\n")
	expectPrinted(t, "async function* f() { yield* a; yield; await b }", "async function* f() {\n  yield* a;\n  yield;\n  await b;\n}\n")
	expectPrinted(t, "x = function() {}", "x = function() {\n};\n")
	expectPrinted(t, "x = async () => {}", "x = async () => {\n};\n")
	expectPrinted(t, "x = (a) => a", "x = (a) => a;\n")
	expectPrinted(t, "x = a => (b, c)", "x = (a) => (b, c);\n")
	expectPrinted(t, "x = a || (() => b)", "x = a || (() => b);\n")
	expectPrinted(t, "function f() { return }", "function f() {\n  return;\n}\n")

	expectPrintedMinify(t, "x = (a) => a", "x=a=>a;")
	expectPrintedMinify(t, "x = (a, b) => a", "x=(a,b)=>a;")
	expectPrintedMinify(t, "x = (...a) => a", "x=(...a)=>a;")
	expectPrintedMinify(t, "x = (a = 1) => a", "x=(a=1)=>a;")
	expectPrintedMinify(t, "x = async a => a", "x=async a=>a;")
	expectPrintedMinify(t, "function f() { return a }", "function f(){return a}")

	expectPrintedMangle(t, "function f() { a(); return }", "function f() {\n  a();\n}\n")
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class A {}", "class A {\n}\n")
	expectPrinted(t, "class A extends B {}", "class A extends B {\n}\n")
	expectPrinted(t, "class A extends (B, C) {}", "class A extends (B, C) {\n}\n")
	expectPrinted(t, "class A { x = 1; y; static z }", "class A {\n  x = 1;\n  y;\n  static z;\n}\n")
	expectPrinted(t, "class A { #x = 1; get #y() {} static #z() {} }", "class A {\n  #x = 1;\n  get #y() {\n  }\n  static #z() {\n  }\n}\n")
	expectPrinted(t, "class A { static { a() } }", "class A {\n  static {\n    a();\n  }\n}\n")
	expectPrinted(t, "class A { ['x'] = 1 }", "class A {\n  [\"x\"] = 1;\n}\n")
	expectPrinted(t, "class A { 'x'() {} }", "class A {\n  \"x\"() {\n  }\n}\n")
	expectPrinted(t, "x = class {}", "x = class {\n};\n")
	expectPrinted(t, "(class {})", "(class {\n});\n")
	expectPrinted(t, "class A { m() { this.#x } #x }", "class A {\n  m() {\n    this.#x;\n  }\n  #x;\n}\n")

	expectPrintedMinify(t, "class A { x = 1; y() {} z }", "class A{x=1;y(){}z}")
	expectPrintedMinify(t, "class A { static { a() } }", "class A{static{a()}}")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "if (a) b", "if (a)\n  b;\n")
	expectPrinted(t, "if (a) b; else c", "if (a)\n  b;\nelse\n  c;\n")
	expectPrinted(t, "if (a) { b } else { c }", "if (a) {\n  b;\n} else {\n  c;\n}\n")
	expectPrinted(t, "if (a) b; else if (c) d; else e", "if (a)\n  b;\nelse if (c)\n  d;\nelse\n  e;\n")
	expectPrinted(t, "for (;;) ;", "for (; ; )\n  ;\n")
	expectPrinted(t, "for (let i = 0; i < n; i++) {}", "for (let i = 0; i < n; i++) {\n}\n")
	expectPrinted(t, "for (a in b) {}", "for (a in b) {\n}\n")
	expectPrinted(t, "for (const a of b) {}", "for (const a of b) {\n}\n")
	expectPrinted(t, "async function f() { for await (const a of b) {} }", "async function f() {\n  for await (const a of b) {\n  }\n}\n")
	expectPrinted(t, "for (a of (b, c)) {}", "for (a of (b, c)) {\n}\n")
	expectPrinted(t, "while (a) {}", "while (a) {\n}\n")
	expectPrinted(t, "do a(); while (b)", "do\n  a();\nwhile (b);\n")
	expectPrinted(t, "do { a() } while (b)", "do {\n  a();\n} while (b);\n")
	expectPrinted(t, "x: for (;;) { break x; continue x }", "x:\n  for (; ; ) {\n    break x;\n    continue x;\n  }\n")
	expectPrinted(t, "try {} catch {} finally {}", "try {\n} catch {\n} finally {\n}\n")
	expectPrinted(t, "try {} catch (e) {}", "try {\n} catch (e) {\n}\n")
	expectPrinted(t, "switch (a) { case 1: b(); break; default: c() }", "switch (a) {\n  case 1:\n    b();\n    break;\n  default:\n    c();\n}\n")
	expectPrinted(t, "switch (a) { case 1: { b() } }", "switch (a) {\n  case 1: {\n    b();\n  }\n}\n")
	expectPrinted(t, "switch (a) { case (b, c): }", "switch (a) {\n  case (b, c):\n}\n")
	expectPrinted(t, "throw a", "throw a;\n")
	expectPrinted(t, "debugger", "debugger;\n")
	expectPrinted(t, ";", ";\n")
	expectPrinted(t, "{ a() }", "{\n  a();\n}\n")
	expectPrinted(t, "var a = 1, b", "var a = 1, b;\n")

	expectPrintedMinify(t, "if (a) b; else c", "if(a)b;else c;")
	expectPrintedMinify(t, "if (a) { b } else { c }", "if(a){b}else{c}")
	expectPrintedMinify(t, "for (a of b) c()", "for(a of b)c();")
	expectPrintedMinify(t, "do a(); while (b)", "do a();while(b);")
	expectPrintedMinify(t, "try { a() } catch (e) { b() }", "try{a()}catch(e){b()}")
	expectPrintedMinify(t, "switch (a) { case 1: b(); default: c() }", "switch(a){case 1:b();default:c()}")
	expectPrintedMinify(t, "a(); b()", "a();b();")
	expectPrintedMinify(t, "throw a", "throw a;")
}

func TestWith(t *testing.T) {
	expectPrintedStmts(t, []js_ast.Stmt{{Data: &js_ast.SWith{
		Value: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "a"}},
		Body:  js_ast.Stmt{Data: &js_ast.SBlock{}},
	}}}, "with (a) {\n}\n", Options{})
}

func TestAmbiguousElse(t *testing.T) {
	ifWithoutElse := js_ast.Stmt{Data: &js_ast.SIf{
		Test: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "b"}},
		Yes:  exprStmt(&js_ast.EIdentifier{Name: "c"}),
	}}
	no := exprStmt(&js_ast.EIdentifier{Name: "d"})

	for _, yes := range []js_ast.Stmt{
		ifWithoutElse,
		{Data: &js_ast.SWhile{Test: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "x"}}, Body: ifWithoutElse}},
		{Data: &js_ast.SLabel{Name: js_ast.LocName{Name: "l"}, Stmt: ifWithoutElse}},
	} {
		js := Print(js_ast.AST{Stmts: []js_ast.Stmt{{Data: &js_ast.SIf{
			Test:    js_ast.Expr{Data: &js_ast.EIdentifier{Name: "a"}},
			Yes:     yes,
			NoOrNil: &no,
		}}}}, test.SourceForTest(""), Options{MinifyWhitespace: true}).JS
		if !strings.HasPrefix(string(js), "if(a){") || !strings.HasSuffix(string(js), "}else d;") {
			t.Fatalf("else is not attached to the outer if: %s", js)
		}
	}
}

func TestLetAsIdentifier(t *testing.T) {
	let := js_ast.Expr{Data: &js_ast.EIdentifier{Name: "let"}}
	zero := js_ast.Expr{Data: &js_ast.ENumber{Value: 0}}

	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EIdentifier{Name: "let"})}, "let;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EIndex{Target: let, Index: zero})}, "(let)[0];\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EDot{Target: let, Name: "x"})}, "let.x;\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{exprStmt(&js_ast.EBinary{
		Op:    js_ast.BinOpAssign,
		Left:  js_ast.Expr{Data: &js_ast.EIndex{Target: let, Index: zero}},
		Right: zero,
	})}, "(let)[0] = 0;\n", Options{})

	expectPrintedStmts(t, []js_ast.Stmt{{Data: &js_ast.SForIn{
		Init:  js_ast.Stmt{Data: &js_ast.SExpr{Value: let}},
		Value: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "x"}},
		Body:  js_ast.Stmt{Data: &js_ast.SBlock{}},
	}}}, "for ((let) in x) {\n}\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{{Data: &js_ast.SForOf{
		Init:  js_ast.Stmt{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "async"}}}},
		Value: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "x"}},
		Body:  js_ast.Stmt{Data: &js_ast.SBlock{}},
	}}}, "for ((async) of x) {\n}\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{{Data: &js_ast.SForOf{
		Init:    js_ast.Stmt{Data: &js_ast.SExpr{Value: js_ast.Expr{Data: &js_ast.EIdentifier{Name: "async"}}}},
		Value:   js_ast.Expr{Data: &js_ast.EIdentifier{Name: "x"}},
		Body:    js_ast.Stmt{Data: &js_ast.SBlock{}},
		IsAwait: true,
	}}}, "for await (async of x) {\n}\n", Options{})
}

func TestDirectives(t *testing.T) {
	expectPrinted(t, "'use strict'; a", "'use strict';\na;\n")
	expectPrinted(t, "\"use strict\"; a", "\"use strict\";\na;\n")
	expectPrinted(t, "('use strict'); a", "(\"use strict\");\na;\n")
	expectPrinted(t, "'a'; ('b')", "'a';\n(\"b\");\n")
	expectPrinted(t, "a; 'b'", "a;\n\"b\";\n")
	expectPrinted(t, "function f() { 'use strict'; ('x') }", "function f() {\n  'use strict';\n  (\"x\");\n}\n")

	expectPrintedMinify(t, "'use strict'; a", "'use strict';a;")

	// The value of a directive is printed inside the quotes it came with
	expectPrintedStmts(t, []js_ast.Stmt{{Data: &js_ast.SDirective{Value: []uint16{'a', '"'}, Quote: '"'}}}, "'a\"';\n", Options{})
	expectPrintedStmts(t, []js_ast.Stmt{{Data: &js_ast.SDirective{Value: []uint16{'a', '"', '\''}, Quote: '"'}}}, "\"a\\\"'\";\n", Options{})
}

func TestImportExport(t *testing.T) {
	expectPrinted(t, "import 'x'", "import \"x\";\n")
	expectPrinted(t, "import a from 'x'", "import a from \"x\";\n")
	expectPrinted(t, "import * as ns from 'x'", "import * as ns from \"x\";\n")
	expectPrinted(t, "import a, {b as c, d} from 'x'", "import a, { b as c, d } from \"x\";\n")
	expectPrinted(t, "import a, * as ns from 'x'", "import a, * as ns from \"x\";\n")
	expectPrinted(t, "import {'a-b' as c} from 'x'", "import { \"a-b\" as c } from \"x\";\n")
	expectPrinted(t, "import {} from 'x'", "import {} from \"x\";\n")
	expectPrinted(t, "export {a as b, c}", "export { a as b, c };\n")
	expectPrinted(t, "export {a as 'b-c'}", "export { a as \"b-c\" };\n")
	expectPrinted(t, "export {a as b} from 'x'", "export { a as b } from \"x\";\n")
	expectPrinted(t, "export {'a-b'} from 'x'", "export { \"a-b\" } from \"x\";\n")
	expectPrinted(t, "export * from 'x'", "export * from \"x\";\n")
	expectPrinted(t, "export * as ns from 'x'", "export * as ns from \"x\";\n")
	expectPrinted(t, "export * as 'a-b' from 'x'", "export * as \"a-b\" from \"x\";\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
	expectPrinted(t, "export function f() {}", "export function f() {\n}\n")
	expectPrinted(t, "export class A {}", "export class A {\n}\n")
	expectPrinted(t, "export default a", "export default a;\n")
	expectPrinted(t, "export default (a, b)", "export default (a, b);\n")
	expectPrinted(t, "export default function() {}", "export default function() {\n}\n")
	expectPrinted(t, "export default function f() {}", "export default function f() {\n}\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
	expectPrinted(t, "export default (function() {})", "export default (function() {\n});\n")
	expectPrinted(t, "export default (class {})", "export default (class {\n});\n")
	expectPrinted(t, "export default (function() {})()", "export default (function() {\n})();\n")

	expectPrintedMinify(t, "import {a} from 'x'", "import{a}from\"x\";")
	expectPrintedMinify(t, "import a, {b} from 'x'", "import a,{b}from\"x\";")
	expectPrintedMinify(t, "import * as ns from 'x'", "import*as ns from\"x\";")
	expectPrintedMinify(t, "export * from 'x'", "export*from\"x\";")
	expectPrintedMinify(t, "export {a as b}", "export{a as b};")
	expectPrintedMinify(t, "export default a", "export default a;")
}

func TestHashbang(t *testing.T) {
	expectPrinted(t, "#!/usr/bin/env node\na", "#!/usr/bin/env node\na;\n")
	expectPrintedMinify(t, "#!/usr/bin/env node\na", "#!/usr/bin/env node\na;")
}

func TestPureComment(t *testing.T) {
	expectPrinted(t, "/* @__PURE__ */ foo()", "foo();\n")

	expectPrintedAnnotations(t, "/* @__PURE__ */ foo()", "/* @__PURE__ */ foo();\n")
	expectPrintedAnnotations(t, "/* #__PURE__ */ foo()", "/* @__PURE__ */ foo();\n")
	expectPrintedAnnotations(t, "//@__PURE__\nfoo()", "/* @__PURE__ */ foo();\n")
	expectPrintedAnnotations(t, "x = /* @__PURE__ */ new Foo", "x = /* @__PURE__ */ new Foo();\n")
	expectPrintedAnnotations(t, "x = /* @__PURE__ */ foo().bar", "x = (/* @__PURE__ */ foo()).bar;\n")
	expectPrintedAnnotations(t, "x = /* @__PURE__ */ foo()()", "x = /* @__PURE__ */ foo()();\n")
	expectPrintedAnnotations(t, "x = a(/* @__PURE__ */ b())", "x = a(/* @__PURE__ */ b());\n")
	expectPrintedAnnotations(t, "x = /* @__PURE__ */ a", "x = a;\n")

	expectPrintedCommon(t, "minified pure", "x = a / /* @__PURE__ */ b()", "x=a/ /* @__PURE__ */ b();", Options{
		PreserveAnnotateComments: true,
		MinifyWhitespace:         true,
	})
}

func TestNoSideEffectsComment(t *testing.T) {
	expectPrinted(t, "/* @__NO_SIDE_EFFECTS__ */ function f() {}", "function f() {\n}\n")

	expectPrintedAnnotations(t, "/* @__NO_SIDE_EFFECTS__ */ function f() {}", "/* @__NO_SIDE_EFFECTS__ */ function f() {\n}\n")
	expectPrintedAnnotations(t, "export /* @__NO_SIDE_EFFECTS__ */ function f() {}", "export /* @__NO_SIDE_EFFECTS__ */ function f() {\n}\n")
	expectPrintedAnnotations(t, "export default /* @__NO_SIDE_EFFECTS__ */ function() {}", "export default /* @__NO_SIDE_EFFECTS__ */ function() {\n}\n")
	expectPrintedAnnotations(t, "x = /* @__NO_SIDE_EFFECTS__ */ function() {}", "x = /* @__NO_SIDE_EFFECTS__ */ function() {\n};\n")
	expectPrintedAnnotations(t, "x = /* @__NO_SIDE_EFFECTS__ */ () => {}", "x = /* @__NO_SIDE_EFFECTS__ */ () => {\n};\n")
	expectPrintedAnnotations(t, "/* @__NO_SIDE_EFFECTS__ */ const f = () => {}", "const f = /* @__NO_SIDE_EFFECTS__ */ () => {\n};\n")
	expectPrintedAnnotations(t, "/* @__NO_SIDE_EFFECTS__ */ let f = function() {}", "let f = /* @__NO_SIDE_EFFECTS__ */ function() {\n};\n")
	expectPrintedAnnotations(t, "/* @__NO_SIDE_EFFECTS__ */ const x = 1", "const x = 1;\n")
	expectPrintedAnnotations(t, "/* @__NO_SIDE_EFFECTS__ */ foo()", "foo();\n")
}

func TestLegalComments(t *testing.T) {
	expectPrinted(t, "/*! keep */\nfoo()", "/*! keep */\nfoo();\n")
	expectPrinted(t, "//! keep\nfoo()", "//! keep\nfoo();\n")
	expectPrinted(t, "/* @license MIT */ foo()", "/* @license MIT */\nfoo();\n")
	expectPrinted(t, "// @preserve\nfoo()", "// @preserve\nfoo();\n")
	expectPrinted(t, "/* drop */ foo()", "foo();\n")
	expectPrinted(t, "function f() {\n  /*! a */\n  b()\n}", "function f() {\n  /*! a */\n  b();\n}\n")
	expectPrinted(t, "function f() {\n    /*!\n     * a\n     */\n    b()\n}", "function f() {\n  /*!\n   * a\n   */\n  b();\n}\n")
	expectPrinted(t, "foo(/*! inner */ x)", "foo(x);\n/*! inner */\n")
	expectPrinted(t, "foo(/*! b */ x, /*! a */ y)", "foo(x, y);\n/*! b */\n/*! a */\n")
	expectPrinted(t, "foo()\n/*! end */", "foo();\n/*! end */\n")
	expectPrinted(t, "x = '</script>' /*! </script> */", "x = \"<\\/script>\";\n/*! <\\/script> */\n")

	expectPrintedMinify(t, "/*! keep */ foo()", "/*! keep */foo();")
	expectPrintedMinify(t, "//! keep\nfoo()", "//! keep\nfoo();")
	expectPrintedMinify(t, "foo(/*! inner */ x)", "foo(x);\n/*! inner */\n")
}

func TestSourceMappings(t *testing.T) {
	contents := "a;\nb;"
	tree := parseForTest(t, contents, false)
	result := Print(tree, test.SourceForTest(contents), Options{AddSourceMappings: true, SourceFilename: "input.js"})
	test.AssertEqual(t, string(result.JS), "a;\nb;\n")
	test.AssertEqual(t, result.Source.PrettyPath, "input.js")
	test.AssertEqual(t, len(result.Mappings), 2)
	test.AssertEqual(t, result.Mappings[0], sourcemap.Record{GeneratedLine: 0, GeneratedColumn: 0, OriginalLoc: logger.Loc{Start: 0}})
	test.AssertEqual(t, result.Mappings[1], sourcemap.Record{GeneratedLine: 1, GeneratedColumn: 0, OriginalLoc: logger.Loc{Start: 3}})

	sm := sourcemap.Build(result.Source, result.Mappings, false)
	test.AssertEqual(t, string(sm.EncodeMappings()), "AAAA;AACA")
	test.AssertEqual(t, strings.Join(sm.Sources, ","), "input.js")

	// Without the option there are no records
	result = Print(tree, test.SourceForTest(contents), Options{})
	test.AssertEqual(t, len(result.Mappings), 0)
	test.AssertEqual(t, result.Source.PrettyPath, "<stdin>")
}

func TestSourceMappingNames(t *testing.T) {
	contents := "\\u0061;"
	tree := parseForTest(t, contents, false)
	result := Print(tree, test.SourceForTest(contents), Options{AddSourceMappings: true})
	test.AssertEqual(t, string(result.JS), "a;\n")
	test.AssertEqual(t, len(result.Mappings), 1)
	test.AssertEqual(t, result.Mappings[0].Name, "\\u0061")

	sm := sourcemap.Build(result.Source, result.Mappings, false)
	test.AssertEqual(t, strings.Join(sm.Names, ","), "\\u0061")
}

func TestSourceMappingsMonotonic(t *testing.T) {
	contents := "function f(a, b) {\n  return a + b;\n}\nclass A { m() { return f(1, 2) } }\nx = [1, {y: `z${f}`}];"
	tree := parseForTest(t, contents, false)
	for _, options := range []Options{
		{AddSourceMappings: true},
		{AddSourceMappings: true, MinifyWhitespace: true},
	} {
		result := Print(tree, test.SourceForTest(contents), options)
		prevLine, prevColumn := int32(0), int32(-1)
		for _, record := range result.Mappings {
			if record.GeneratedLine < prevLine || (record.GeneratedLine == prevLine && record.GeneratedColumn <= prevColumn) {
				t.Fatalf("records are out of order at %d:%d", record.GeneratedLine, record.GeneratedColumn)
			}
			if record.OriginalLoc.Start < 0 || int(record.OriginalLoc.Start) > len(contents) {
				t.Fatalf("record points outside the source: %d", record.OriginalLoc.Start)
			}
			prevLine, prevColumn = record.GeneratedLine, record.GeneratedColumn
		}
		if len(result.Mappings) < 10 {
			t.Fatalf("expected a record for most tokens, got %d", len(result.Mappings))
		}
	}
}

func TestReprint(t *testing.T) {
	inputs := []string{
		"a - (b - c) * d ** -e",
		"x = { a, b: [1, , 2], ...c, [d]: () => ({}) }",
		"for (const [a, b] of c) if (a) b(); else { d() }",
		"label: for (;;) { try { break label } catch { continue } finally {} }",
		"class A extends B { static #x = 1; get y() { return super.y } static { this.#x } }",
		"async function* f(a = 1, ...b) { yield* await a; for await (x of b) ; }",
		"x = a ?? (b || c); y = (a ?? b) || c; z = a?.b?.[c]?.(d)",
		"x = tag`a${b}c` + `d\\n${e}`; y = /re/g.test(z)",
		"x = new (a())(); y = new a.b.c; z = (0, a.b)()",
		"switch (a) { case 1: case 2: b(); break; default: }",
		"import a, { b as c } from 'x'; export { c as d }; export * as e from 'y'",
		"'use strict'; ('not a directive'); x = '\\u2028' + \"'\"",
		"x = 1e3 + 0.5 + 0xFF + 1_000 + 123n + .5e-10",
	}

	for _, contents := range inputs {
		t.Run(contents, func(t *testing.T) {
			for _, options := range []Options{{}, {MinifyWhitespace: true}, {MinifySyntax: true}, {MinifySyntax: true, MinifyWhitespace: true}, {ASCIIOnly: true}} {
				first := Print(parseForTest(t, contents, options.MinifySyntax), test.SourceForTest(contents), options).JS
				second := Print(parseForTest(t, string(first), options.MinifySyntax), test.SourceForTest(string(first)), options).JS
				test.AssertEqualWithDiff(t, string(second), string(first))
			}

			// Minified output means the same thing as the pretty output
			pretty := Print(parseForTest(t, contents, false), test.SourceForTest(contents), Options{}).JS
			minified := Print(parseForTest(t, contents, false), test.SourceForTest(contents), Options{MinifyWhitespace: true}).JS
			reprinted := Print(parseForTest(t, string(minified), false), test.SourceForTest(string(minified)), Options{}).JS
			test.AssertEqualWithDiff(t, string(stripRaw(reprinted)), string(stripRaw(pretty)))
		})
	}
}

// Minified numbers lose their original spelling, so compare the rest
func stripRaw(js []byte) []byte {
	replacer := strings.NewReplacer("1e3", "1000", "0.5", ".5", "0xFF", "255", "1_000", "1000", "5e-11", ".5e-10", "0.00000000005", ".5e-10")
	return []byte(replacer.Replace(string(js)))
}

func TestConcurrentPrint(t *testing.T) {
	contents := "function f(a) { return a + 1 }\nx = [f(1), { y: f(2) }];"
	tree := parseForTest(t, contents, false)
	expected := string(Print(tree, test.SourceForTest(contents), Options{}).JS)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = string(Print(tree, test.SourceForTest(contents), Options{AddSourceMappings: true}).JS)
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		test.AssertEqualWithDiff(t, result, expected)
	}
}

func TestUnexpectedNode(t *testing.T) {
	expectPanic := func(stmts []js_ast.Stmt, text string) {
		t.Helper()
		defer func() {
			r := recover()
			test.AssertEqual(t, fmt.Sprint(r), text)
		}()
		Print(js_ast.AST{Stmts: stmts}, test.SourceForTest(""), Options{})
	}

	expectPanic([]js_ast.Stmt{{}}, "js_printer: unexpected statement type <nil>")
	expectPanic([]js_ast.Stmt{exprStmt(nil)}, "js_printer: unexpected expression type <nil>")
	expectPanic([]js_ast.Stmt{{Data: &js_ast.SLocal{Decls: []js_ast.Decl{{}}}}}, "js_printer: unexpected binding type <nil>")
}

func TestIndentOption(t *testing.T) {
	contents := "if (a) { b() }"
	tree := parseForTest(t, contents, false)
	js := Print(tree, test.SourceForTest(contents), Options{Indent: 1}).JS
	test.AssertEqualWithDiff(t, string(js), "  if (a) {\n    b();\n  }\n")
}
