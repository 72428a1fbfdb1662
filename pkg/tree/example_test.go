package tree_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/graphize/pkg/tree"
)

func ExampleParse() {
	st, err := tree.Parse(`{"name": "Alice", "pets": ["Rex", "Mia"]}`)
	if err != nil {
		panic(err)
	}

	for _, n := range st.Nodes {
		fmt.Printf("%s%s\n", strings.Repeat("  ", n.Depth), n.Text)
	}
	for _, e := range st.Edges {
		fmt.Println(e.ID)
	}
	fmt.Println("depth:", st.Depth)
	// Output:
	// root
	//   name: Alice
	//   pets
	//     0: Rex
	//     1: Mia
	// #->#/name
	// #->#/pets
	// #/pets->#/pets/0
	// #/pets->#/pets/1
	// depth: 2
}

func ExampleParse_yaml() {
	st, _ := tree.Parse("server:\n  host: localhost\n  port: 8080\n")

	for _, n := range st.Nodes {
		fmt.Println(n.ID, "=", n.Text)
	}
	// Output:
	// # = root
	// #/server = server
	// #/server/host = host: localhost
	// #/server/port = port: 8080
}

func ExampleParse_empty() {
	st, err := tree.Parse("# just a comment\n")
	fmt.Println(err, st.IsEmpty())
	// Output:
	// <nil> true
}

func ExampleMaxZoom() {
	st, _ := tree.Parse(`{"a": {"b": {"c": 1}}}`)
	fmt.Println(st.Depth, tree.MaxZoom(st.Depth))
	// Output:
	// 3 4
}
