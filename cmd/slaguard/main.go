package main

import "github.com/tkc/slaguard/internal/cli"

func main() {
	cli.Execute()
}
