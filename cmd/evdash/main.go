package main

import "github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/cli"

func main() {
	cli.Execute()
}
