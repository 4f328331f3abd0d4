package main

import (
	"context"
	"fmt"
	"os"

	"tasktrack/cli"
	"tasktrack/logger"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		logger.Log.Error(fmt.Sprintf("[main] %v", err))
		os.Exit(1)
	}
}
