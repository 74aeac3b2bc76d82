package main

import "github.com/datateller/datateller/cmd"

func main() {
	cmd.Execute()
}
