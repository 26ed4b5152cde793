package main

import "github.com/barefootnomad/backend/cmd"

func main() {
	cmd.Execute()
}
