package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/secmon-lab/argus/pkg/cli"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Default().Warn("fail to load .env file", "error", err)
	}

	if err := cli.New().Run(os.Args); err != nil {
		os.Exit(1)
	}
}
