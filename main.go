package main

import "github.com/naka-gawa/gitmetrics/cmd"

func main() {
	cmd.Execute()
}
