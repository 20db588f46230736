// Package main is the entry point for the storefront CLI client.
package main

import (
	"github.com/closetlabs/storefront/cmd/storefront/cmd"
)

func main() {
	cmd.Execute()
}
