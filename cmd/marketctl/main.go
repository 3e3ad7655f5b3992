// Command marketctl is the operator tool for taskmarket: schema migrations,
// account provisioning, token issuance and aggregate reconciliation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
