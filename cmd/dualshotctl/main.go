package main

import "dualshot/cmd/dualshotctl/commands"

func main() {
	commands.Execute()
}
