// Command fex issues HTTP requests from the command line.
//
//	fex get https://api.example.com/users -q page=2
//	fex post /users -d '{"name":"ada"}' --base-url https://api.example.com
//	fex version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
