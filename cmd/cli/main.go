// miplog - HiGHS MIP Log Analyzer
//
// miplog selects the last complete solver run in a HiGHS log and reports or
// plots its branch-and-bound progress.
package main

import (
	"os"

	"github.com/ccollicutt/miplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
