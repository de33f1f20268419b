package main

import "github.com/mcoot/fivem-rosterbot/internal/cli"

func main() {
	cli.Execute()
}
