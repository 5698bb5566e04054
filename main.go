package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	logger := newLogger(
		os.Getenv("CONCEPT_GRAPH_LOG_LEVEL"),
		os.Getenv("CONCEPT_GRAPH_LOG_FORMAT"),
		os.Stderr,
	)
	app := NewApp(logger)

	err := wails.Run(&options.App{
		Title:  "Concept Graph",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Error("shell exited", "err", err)
		os.Exit(1)
	}
}
