// Command claimctl runs operator tasks against the InsureVis database.
package main

import (
	"os"

	"insurevis/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
