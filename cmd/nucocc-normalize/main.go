// cmd/nucocc-normalize/main.go
package main

import (
	"nucocc/internal/appshell"
	"nucocc/internal/normalizeapp"
)

func main() { appshell.Main(normalizeapp.RunContext) }
