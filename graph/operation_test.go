package graph

import "testing"

func TestOperationKind(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name, doc, op string
		want          string
		ok            bool
	}{
		{"shorthand query", `{ me { id } }`, "", "query", true},
		{"anonymous mutation", `mutation { logout }`, "", "mutation", true},
		{"named mutation", `mutation Bye { logout }`, "", "mutation", true},
		{"selected by name", `query Menu { getAllTables { id } } mutation Out { logout }`, "Out", "mutation", true},
		{"query selected among mutations", `mutation Out { logout } query Menu { getAllTables { id } }`, "Menu", "query", true},
		{"ambiguous without a name", `query A { me { id } } mutation B { logout }`, "", "", false},
		{"unknown name", `query A { me { id } }`, "B", "", false},
		{"fragments are not operations", `fragment F on User { id } mutation { logout }`, "", "mutation", true},
		{"variables and defaults", `mutation($in: LoginInput = {email: "a", password: "b"}) @live { login(input: $in) { id } }`, "", "mutation", true},
		{"keywords inside strings and comments", "# mutation\n{ searchMenuItems(input: {name: \"mutation {\"}) { id } }", "", "query", true},
		{"field named mutation", `{ mutation: me { id } }`, "", "query", true},
		{"block string", `query Q { searchMenuItems(input: {name: """ } mutation {"""}) { id } }`, "", "query", true},
	}
	for _, tc := range cases {
		got, ok := operationKind(tc.doc, tc.op)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
