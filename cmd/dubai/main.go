package main

import (
	"github.com/ChampneyBull/dubai-app/internal/cli"
)

func main() {
	cli.Execute()
}
