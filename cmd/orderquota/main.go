package main

import "github.com/nicksanjaya/optimasi-order-selection/internal/cli"

func main() {
	cli.Execute()
}
