package main

import (
	"os"

	"github.com/xenking/otamanga-storefront/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
