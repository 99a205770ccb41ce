package main

import "github.com/arch-sim/mesicache/cmd"

func main() {
	cmd.Execute()
}
