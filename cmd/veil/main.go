// Command veil masks sensitive values from the command line using the
// same maskers veil applies while rendering views.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
