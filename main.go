package main

import "github.com/ryan-gang/ink-drop/cmd"

func main() {
	cmd.Execute()
}
