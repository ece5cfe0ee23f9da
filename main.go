package main

import "github.com/domainsale/domainsale/cmd"

func main() {
	cmd.Execute()
}
