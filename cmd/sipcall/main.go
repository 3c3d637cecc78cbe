package main

import (
	"os"

	"github.com/PabloGalante/sipcall/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
