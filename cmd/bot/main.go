package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/den/cmd/bot/config"
	"github.com/Jacobbrewer1/den/pkg/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}

	a, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalln(err)
	}
	defer cleanup()

	a.Info("Starting application")
	if err := a.Run(); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		cleanup()
		os.Exit(1)
	}
}
