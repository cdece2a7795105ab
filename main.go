package main

import "github.com/ledan/tempo-cli/cmd"

func main() {
	cmd.Execute()
}
