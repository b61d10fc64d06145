package main

import (
	_ "time/tzdata"

	"github.com/example/tablebook/cmd"
)

func main() {
	cmd.Execute()
}
