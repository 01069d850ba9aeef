package main

import "github.com/mvillareal/lumina/cmd"

func main() {
	cmd.Execute()
}
