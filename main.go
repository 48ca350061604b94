package main

import (
	"github.com/leighmacdonald/ctbans/internal/cmd"
)

func main() {
	cmd.Execute()
}
