package js_lexer

import "fmt"

type T uint8

// Tokens are grouped by how the parser consumes them. Every identifier-like
// token comes after TIdentifier so that a single comparison answers whether
// the current token can be used as a property name.
const (
	TEndOfFile T = iota
	TSyntaxError
	THashbang // "#!/usr/bin/env node" as the first line

	// Values are read from Number, StringLiteral, or Identifier
	TNumericLiteral
	TBigIntegerLiteral
	TStringLiteral
	TNoSubstitutionTemplateLiteral
	TTemplateHead
	TTemplateMiddle
	TTemplateTail

	// Brackets and separators
	TOpenParen
	TCloseParen
	TOpenBracket
	TCloseBracket
	TOpenBrace
	TCloseBrace
	TComma
	TSemicolon
	TColon
	TDot
	TDotDotDot
	TQuestionDot
	TEqualsGreaterThan
	TAt

	// Operators
	TPlus
	TMinus
	TAsterisk
	TAsteriskAsterisk
	TSlash
	TPercent
	TPlusPlus
	TMinusMinus
	TLessThan
	TLessThanEquals
	TLessThanLessThan
	TGreaterThan
	TGreaterThanEquals
	TGreaterThanGreaterThan
	TGreaterThanGreaterThanGreaterThan
	TEqualsEquals
	TEqualsEqualsEquals
	TExclamation
	TExclamationEquals
	TExclamationEqualsEquals
	TAmpersand
	TAmpersandAmpersand
	TBar
	TBarBar
	TCaret
	TTilde
	TQuestion
	TQuestionQuestion

	// Assignment operators
	TEquals
	TPlusEquals
	TMinusEquals
	TAsteriskEquals
	TAsteriskAsteriskEquals
	TSlashEquals
	TPercentEquals
	TLessThanLessThanEquals
	TGreaterThanGreaterThanEquals
	TGreaterThanGreaterThanGreaterThanEquals
	TAmpersandEquals
	TAmpersandAmpersandEquals
	TBarEquals
	TBarBarEquals
	TCaretEquals
	TQuestionQuestionEquals

	TPrivateIdentifier // "#name", read from Identifier

	TIdentifier     // Read from Identifier
	TEscapedKeyword // A reserved word spelled with unicode escapes

	// Reserved words, in the order of "keywordText"
	TBreak
	TCase
	TCatch
	TClass
	TConst
	TContinue
	TDebugger
	TDefault
	TDelete
	TDo
	TElse
	TEnum
	TExport
	TExtends
	TFalse
	TFinally
	TFor
	TFunction
	TIf
	TImport
	TIn
	TInstanceof
	TNew
	TNull
	TReturn
	TSuper
	TSwitch
	TThis
	TThrow
	TTrue
	TTry
	TTypeof
	TVar
	TVoid
	TWhile
	TWith

	tokenCount
)

var keywordText = [...]string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "enum", "export", "extends", "false",
	"finally", "for", "function", "if", "import", "in", "instanceof", "new",
	"null", "return", "super", "switch", "this", "throw", "true", "try",
	"typeof", "var", "void", "while", "with",
}

// Keywords maps each reserved word to its token. Contextual keywords such as
// "let" or "async" are plain identifiers and are not listed.
var Keywords = func() map[string]T {
	m := make(map[string]T, len(keywordText))
	for i, text := range keywordText {
		m[text] = TBreak + T(i)
	}
	return m
}()

// Operators made only of ASCII punctuation, longest first so that the first
// prefix match is the maximal munch
var punctuators = []struct {
	text  string
	token T
}{
	{">>>=", TGreaterThanGreaterThanGreaterThanEquals},

	{"...", TDotDotDot},
	{"===", TEqualsEqualsEquals},
	{"!==", TExclamationEqualsEquals},
	{"**=", TAsteriskAsteriskEquals},
	{"<<=", TLessThanLessThanEquals},
	{">>=", TGreaterThanGreaterThanEquals},
	{">>>", TGreaterThanGreaterThanGreaterThan},
	{"&&=", TAmpersandAmpersandEquals},
	{"||=", TBarBarEquals},
	{"??=", TQuestionQuestionEquals},

	{"=>", TEqualsGreaterThan},
	{"==", TEqualsEquals},
	{"!=", TExclamationEquals},
	{"<=", TLessThanEquals},
	{">=", TGreaterThanEquals},
	{"<<", TLessThanLessThan},
	{">>", TGreaterThanGreaterThan},
	{"**", TAsteriskAsterisk},
	{"&&", TAmpersandAmpersand},
	{"||", TBarBar},
	{"??", TQuestionQuestion},
	{"?.", TQuestionDot},
	{"++", TPlusPlus},
	{"--", TMinusMinus},
	{"+=", TPlusEquals},
	{"-=", TMinusEquals},
	{"*=", TAsteriskEquals},
	{"/=", TSlashEquals},
	{"%=", TPercentEquals},
	{"&=", TAmpersandEquals},
	{"|=", TBarEquals},
	{"^=", TCaretEquals},

	{"(", TOpenParen}, {")", TCloseParen},
	{"[", TOpenBracket}, {"]", TCloseBracket},
	{"{", TOpenBrace}, {"}", TCloseBrace},
	{",", TComma}, {":", TColon}, {";", TSemicolon}, {".", TDot},
	{"@", TAt}, {"~", TTilde}, {"?", TQuestion}, {"!", TExclamation},
	{"+", TPlus}, {"-", TMinus}, {"*", TAsterisk}, {"/", TSlash}, {"%", TPercent},
	{"&", TAmpersand}, {"|", TBar}, {"^", TCaret},
	{"=", TEquals}, {"<", TLessThan}, {">", TGreaterThan},
}

// tokenText is how a token is named in "Expected ... but found ..." errors
var tokenText = func() (names [tokenCount]string) {
	names[TEndOfFile] = "end of file"
	names[TSyntaxError] = "syntax error"
	names[THashbang] = "hashbang comment"
	names[TNumericLiteral] = "number"
	names[TBigIntegerLiteral] = "bigint"
	names[TStringLiteral] = "string"
	for t := TNoSubstitutionTemplateLiteral; t <= TTemplateTail; t++ {
		names[t] = "template literal"
	}
	names[TPrivateIdentifier] = "private identifier"
	names[TIdentifier] = "identifier"
	names[TEscapedKeyword] = "escaped keyword"
	for _, p := range punctuators {
		names[p.token] = fmt.Sprintf("%q", p.text)
	}
	for i, text := range keywordText {
		names[TBreak+T(i)] = fmt.Sprintf("%q", text)
	}
	return
}()

func (t T) String() string {
	if t < tokenCount {
		return tokenText[t]
	}
	return fmt.Sprintf("token(%d)", t)
}
