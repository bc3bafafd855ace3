// Package main is the entry point for pgedge-olist-etl.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-olist-etl/internal/cli"

	// Register pipeline stages
	_ "github.com/pgEdge/pgedge-olist-etl/internal/marts"
	_ "github.com/pgEdge/pgedge-olist-etl/internal/raw"
	_ "github.com/pgEdge/pgedge-olist-etl/internal/staging"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
