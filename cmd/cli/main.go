// refcompare - Log Reference Comparison Tool
//
// refcompare compares work logs line by line with reference logs, optionally
// treating reference lines as regular expressions, and records the outcome
// as .suc/.dif files.
package main

import (
	"os"

	"github.com/ccollicutt/refcompare/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
