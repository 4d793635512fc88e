package main

import "ezistra/cmd/server/cmd"

func main() {
	cmd.Execute()
}
