package main

import "github.com/claimplan/claimplan/internal/cli"

func main() {
	cli.Execute()
}
