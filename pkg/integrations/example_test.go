package integrations_test

import (
	"fmt"

	"github.com/takeruhukushima/publiccodelooks/pkg/integrations"
)

func ExampleHeaders() {
	h := integrations.Headers("ghp_example", "publiccodelooks")
	fmt.Println(h["Authorization"])
	fmt.Println(h["Accept"])
	// Output:
	// Bearer ghp_example
	// application/vnd.github.v3+json
}

func Example_errors() {
	// Standard errors for API operations
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	// Output:
	// ErrNotFound: not found
	// ErrNetwork: network error
}
