package main

import (
	"context"

	"securestock/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
