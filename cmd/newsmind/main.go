package main

import (
	"os"

	"github.com/ressKim-io/NewsMind/api-service/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
