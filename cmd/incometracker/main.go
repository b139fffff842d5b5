package main

import (
	"os"

	"github.com/shopspring/decimal"

	"incometracker/internal/cli"
)

func main() {
	// Amounts are emitted as JSON numbers rather than strings.
	decimal.MarshalJSONWithoutQuotes = true

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
