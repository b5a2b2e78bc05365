package main

import "github.com/contribstats/contribstats/cmd"

func main() {
	cmd.Execute()
}
