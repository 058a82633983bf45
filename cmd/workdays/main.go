package main

import (
	_ "time/tzdata"

	"workdays/internal/cli"
)

func main() {
	cli.Execute()
}
