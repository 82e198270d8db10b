package main

import "github.com/sceptre-tools/sceptre-resource-importer/cmd"

func main() {
	cmd.Execute()
}
