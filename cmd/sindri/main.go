package main

import "github.com/sindri-labs/sindri-go/internal/cli"

func main() {
	cli.Execute()
}
