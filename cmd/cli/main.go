package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/user-directory/internal/cli"
)

func main() {
	_ = godotenv.Load()
	if err := cli.NewRootCmd(cli.ContainerLoader).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
