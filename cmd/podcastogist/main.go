package main

import (
	"podcastogist/cmd/podcastogist/cmd"
)

func main() {
	cmd.Execute()
}
