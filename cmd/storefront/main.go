package main

import (
	"os"

	"github.com/vjzest/architect-storefront/cmd/storefront/subcmd"
)

func main() {
	if err := subcmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
