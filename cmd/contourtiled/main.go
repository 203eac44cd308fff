package main

import "github.com/elevatio/contourtile/cmd/contourtiled/cmd"

func main() {
	cmd.Execute()
}
