package main

import (
	"github.com/kindletools/kindle-fetch/cmd"

	// Registers the Windows UI Automation backend.
	_ "github.com/kindletools/kindle-fetch/internal/platform/uia"
)

func main() {
	cmd.Execute()
}
