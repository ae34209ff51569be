package main

import "ensure-requirements-specified/internal/cli"

func main() {
	cli.Execute()
}
