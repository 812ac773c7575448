package main

import "github.com/deploymenttheory/go-uf2/cmd"

func main() {
	cmd.Execute()
}
