package main

import (
	"github.com/patternware/satchel/cmd"
)

func main() {
	cmd.Execute()
}
