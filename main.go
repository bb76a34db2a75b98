package main

import (
	"cayc/cmd"
	"os"
)

func main() {
	os.Exit(cmd.Execute())
}
