package main

import "github.com/lexharvest/lexharvest/cmd"

func main() {
	cmd.Execute()
}
