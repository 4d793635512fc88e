package main

import "ezistra/cmd/client/cmd"

func main() {
	cmd.Execute()
}
