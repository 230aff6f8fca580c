package main

import "mangapress/cmd/cli/command"

func main() {
	command.Execute()
}
