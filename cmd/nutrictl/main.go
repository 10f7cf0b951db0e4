package main

import "github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/cli"

func main() {
	cli.Execute()
}
