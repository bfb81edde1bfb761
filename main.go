package main

import "github.com/pipfolio/pipview/cmd"

func main() {
	cmd.Execute()
}
