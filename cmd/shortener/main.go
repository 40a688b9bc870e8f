package main

import (
	"context"
	"errors"
	"os"
	_ "time/tzdata"

	"github.com/fsdevblog/shortlinks/internal/app"
	"github.com/fsdevblog/shortlinks/internal/bmeta"
	"github.com/fsdevblog/shortlinks/internal/config"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	bmeta.Print(os.Stdout, buildVersion, buildDate, buildCommit)

	appConf := config.MustLoadConfig(os.Args[1:])

	a := app.Must(app.New(*appConf))

	a.Logger.WithFields(bmeta.New(buildVersion, buildDate, buildCommit).Fields()).
		WithField("config", appConf.Redacted()).
		Info("Starting server")
	if err := a.Run(); err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.WithError(err).Fatal("server stopped")
	}
}
