package main

import "github.com/LeJamon/goShredstore/internal/cli"

func main() {
	cli.Execute()
}
