//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/showme/internal/core/errchan"
	"github.com/zeusync/showme/internal/core/httpclient"
	"github.com/zeusync/showme/internal/core/monitor"
	"github.com/zeusync/showme/internal/core/observability/log"
)

// InitializeApp wires a logger, the global error channel, the intercepted HTTP
// client and a monitor watching both.
func InitializeApp(config monitor.Config, clientConfig httpclient.Config, level log.Level) *App {
	wire.Build(
		log.New,
		wire.Bind(new(log.Log), new(*log.Logger)),
		errchan.New,
		wire.Bind(new(monitor.ErrorChannel), new(*errchan.Channel)),
		httpclient.New,
		ProvidePipeline,
		monitor.Provide,
		wire.Struct(new(App), "*"),
	)
	return nil
}
