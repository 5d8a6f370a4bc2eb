package main

import "stream-sync/cmd"

func main() {
	cmd.Execute()
}
