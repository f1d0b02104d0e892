package main

import "staffhive/internal/cli"

func main() {
	cli.Execute()
}
