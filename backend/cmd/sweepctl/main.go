// Command sweepctl imports graph documents and queries the store from the shell.
package main

import (
	"os"

	"sweepgraph/backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		logger.Get().Error("Command failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
