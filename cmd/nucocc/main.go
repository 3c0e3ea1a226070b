// cmd/nucocc/main.go
package main

import (
	"nucocc/internal/app"
	"nucocc/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
