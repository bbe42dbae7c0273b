package main

import "github.com/sw33tLie/scoutqr/cmd"

func main() {
	cmd.Execute()
}
