package main

import (
	"fmt"
	"os"

	"itemstore/internal/client"
	"itemstore/internal/controller"
	"itemstore/internal/tui"
	"itemstore/pkg/config"
	"itemstore/pkg/logger"
)

func main() {
	appConfig, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// The terminal belongs to the form, so logs only go to LOG_PATH.
	log := logger.New(logger.Options{
		Service: "itemsctl",
		Level:   appConfig.LogLevel,
		Path:    appConfig.LogPath,
		Quiet:   true,
	})
	defer log.Sync()

	ctrl := controller.New(client.New(appConfig.APIURL, appConfig.APITimeout))

	if err := tui.Run(ctrl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
