package main

import (
	"github.com/uksimracing/website/internal/cmd"
)

func main() {
	cmd.Execute()
}
