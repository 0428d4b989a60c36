package graph

// operation is the header of one executable definition in a GraphQL document
type operation struct {
	kind string
	name string
}

// operationKind reports whether the operation a request selects is a query,
// mutation or subscription. ok is false when the document does not say
// unambiguously; graphql-go rejects such requests on its own.
func operationKind(doc, operationName string) (kind string, ok bool) {
	ops := operations(doc)
	if operationName == "" {
		if len(ops) != 1 {
			return "", false
		}
		return ops[0].kind, true
	}
	for _, op := range ops {
		if op.name == operationName {
			return op.kind, true
		}
	}
	return "", false
}

// operations lists the top-level operation headers of doc. Selection sets,
// argument lists and strings are skipped, fragments are ignored.
func operations(doc string) []operation {
	var (
		ops      []operation
		pending  *operation
		fragment bool
		braces   int
		parens   int
	)
	for i := 0; i < len(doc); {
		c := doc[i]
		switch {
		case c == '#':
			for i < len(doc) && doc[i] != '\n' {
				i++
			}
			continue
		case c == '"':
			i = skipString(doc, i)
			continue
		case c == '@' || c == '$':
			i++
			i += nameLen(doc[i:])
			continue
		case isNameStart(c):
			n := nameLen(doc[i:])
			word := doc[i : i+n]
			i += n
			if braces > 0 || parens > 0 || fragment {
				continue
			}
			switch {
			case pending == nil && (word == "query" || word == "mutation" || word == "subscription"):
				pending = &operation{kind: word}
			case pending == nil && word == "fragment":
				fragment = true
			case pending != nil && pending.name == "":
				pending.name = word
			}
			continue
		case c == '{':
			if braces == 0 && parens == 0 {
				switch {
				case pending != nil:
					ops = append(ops, *pending)
				case !fragment:
					ops = append(ops, operation{kind: "query"})
				}
				pending, fragment = nil, false
			}
			braces++
		case c == '}':
			braces--
		case c == '(':
			parens++
		case c == ')':
			parens--
		}
		i++
	}
	return ops
}

// skipString returns the index just past the string literal starting at i
func skipString(doc string, i int) int {
	if len(doc)-i >= 3 && doc[i:i+3] == `"""` {
		for j := i + 3; j+3 <= len(doc); j++ {
			if doc[j:j+3] == `"""` && doc[j-1] != '\\' {
				return j + 3
			}
		}
		return len(doc)
	}
	for j := i + 1; j < len(doc); j++ {
		switch doc[j] {
		case '\\':
			j++
		case '"', '\n':
			return j + 1
		}
	}
	return len(doc)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func nameLen(s string) int {
	n := 0
	for n < len(s) && (isNameStart(s[n]) || (s[n] >= '0' && s[n] <= '9')) {
		n++
	}
	return n
}
