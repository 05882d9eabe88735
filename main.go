package main

import "github.com/chriserin/ftorigin/cmd"

func main() {
	cmd.Execute()
}
