/*
Copyright © 2024 Victor Hang
*/
package main

import (
	"github.com/Banh-Canh/cinedeck/cmd"
	"github.com/Banh-Canh/cinedeck/internal/utils"
)

func main() {
	defer utils.SyncLogger() // nolint:all
	cmd.Execute()
}
