package main

import "github.com/Pelestrom/mondjai-budget-manager/internal/cli"

func main() {
	cli.Execute()
}
