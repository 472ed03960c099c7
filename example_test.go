package edpat_test

import (
	"fmt"

	"github.com/coregx/edpat"
)

func Example() {
	p := edpat.MustCompile(`/'error' s* ":"/`)
	fmt.Println(p.FindString("Error : disk full"))
	// Output: Error :
}

func ExamplePattern_FindString_context() {
	p := edpat.MustCompile(`/"(", n+, ")"/`)
	fmt.Println(p.FindString("call(42)"))
	// Output: 42
}

func ExamplePattern_FindAllString() {
	p := edpat.MustCompile(`/<'todo'/`)
	fmt.Println(p.FindAllString("TODO one\n  todo two\ntodo three", -1))
	// Output: [TODO todo]
}
