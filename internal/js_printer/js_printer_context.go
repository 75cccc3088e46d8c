package js_printer

// Context is the set of grammar restrictions a parent places on the
// expression it is about to print. It is passed by value and derived per
// call, so a restriction added for one child never leaks to its siblings.
type Context uint8

const (
	// A bare "in" would end the head of a "for (... in ...)" loop
	ctxForbidIn Context = 1 << iota

	// A bare call would be taken as the arguments of an enclosing "new"
	ctxForbidCall

	// The expression is the target of a member access or call that isn't
	// part of an optional chain, so "(a?.b).c" needs its parentheses
	ctxInPlainChain

	// The expression is the head of a "for (... of ...)" loop, where
	// "async of" starts an arrow function
	ctxBeforeOf

	// Like ctxBeforeOf, but in "for await", where "async of" is fine
	ctxInForAwait
)

func (c Context) Has(flag Context) bool {
	return c&flag != 0
}

func (c Context) With(flag Context) Context {
	return c | flag
}

func (c Context) Without(flag Context) Context {
	return c &^ flag
}

// Only keeps the given flags and drops the rest
func (c Context) Only(flags Context) Context {
	return c & flags
}
