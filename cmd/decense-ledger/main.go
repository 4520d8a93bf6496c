package main

import (
	"github.com/sirupsen/logrus"

	"github.com/code-payments/decense/pkg/app"
	"github.com/code-payments/decense/pkg/decense/data"
	"github.com/code-payments/decense/pkg/decense/ledger"
	"github.com/code-payments/decense/pkg/decense/processor"
	"github.com/code-payments/decense/pkg/decense/runtime"
)

func main() {
	l := ledger.New(
		data.WithEnvConfigs(),
		runtime.WithEnvConfigs(),
		processor.WithEnvConfigs(),
	)

	if err := app.Run(l); err != nil {
		logrus.StandardLogger().WithError(err).Fatal("error running decense ledger")
	}
}
