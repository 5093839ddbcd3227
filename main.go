package main

import "agrigpt/cmd"

func main() {
	cmd.Execute()
}
