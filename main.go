package main

import "github.com/moodcast/moodcast/cmd"

func main() {
	cmd.Execute()
}
