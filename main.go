package main

import "garnet/cmd"

func main() {
	cmd.Execute()
}
