// Command bazi calculates Four Pillars charts from the command line.
package main

import "github.com/zapponejosh/bazi-api/internal/cli"

func main() {
	cli.Main()
}
