package main

import (
	_ "time/tzdata"

	"github.com/Tiliavir/sitelog/cmd"
)

func main() {
	cmd.Execute()
}
