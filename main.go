package main

import "github.com/Harrypotter-hub/SmartBunk/cmd"

func main() {
	cmd.Execute()
}
