// facetfilter evaluates faceted filters over a categorised dataset.
package main

import (
	"os"

	"github.com/hupe1980/facetfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
