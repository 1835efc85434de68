package injector

import (
	"go.uber.org/multierr"

	"github.com/zeusync/showme/internal/core/errchan"
	"github.com/zeusync/showme/internal/core/httpclient"
	"github.com/zeusync/showme/internal/core/monitor"
	"github.com/zeusync/showme/internal/core/observability/log"
)

// App is the assembled object graph.
type App struct {
	Logger  *log.Logger
	Channel *errchan.Channel
	Client  *httpclient.Client
	Monitor *monitor.Monitor
}

// ProvidePipeline exposes the client's response interceptors to the monitor.
func ProvidePipeline(client *httpclient.Client) monitor.ResponsePipeline {
	return client.Interceptors()
}

// Close stops the monitor and releases the channel and client.
func (a *App) Close() error {
	err := a.Monitor.Stop()
	err = multierr.Append(err, a.Client.Close())
	err = multierr.Append(err, a.Channel.Close())
	_ = a.Logger.Sync()
	return err
}
