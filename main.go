package main

import "github.com/encodeous/routegen/cmd"

func main() {
	cmd.Execute()
}
