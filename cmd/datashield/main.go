package main

import (
	"os"

	"github.com/datashield/datashield-go/cmd/cli"

	// drivers register themselves with the driver registry
	_ "github.com/datashield/datashield-go/internal/drivers/memory"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
