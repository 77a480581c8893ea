package main

import "github.com/KaramelBytes/datasys-cli/cmd"

func main() {
	cmd.Execute()
}
