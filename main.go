package main

import "github.com/cristivlas/shmy-sub000/cmd"

func main() {
	cmd.Execute()
}
