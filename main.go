package main

import "checklist/cmd"

func main() {
	cmd.Execute()
}
