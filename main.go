package main

import "spawner/cmd"

func main() {
	cmd.Execute()
}
