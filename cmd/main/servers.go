package main

import (
	"context"
	"time"

	"seasonality-dashboard/src/controller"
	pb "seasonality-dashboard/src/grpc_control"
	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
	"seasonality-dashboard/src/scheduler"
	"seasonality-dashboard/src/utils"
)

// -----------------------------------------------------------------------------

type runningServers struct {
	srv     interfaces.IDataExchanger
	control *pb.ControlServer
	refresh *scheduler.RefreshScheduler
	errs    *helpers.ErrorHandler
}

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all server components. A server
// that fails after startup is reported to errs and triggers shutdown.
func startServers(
	config *models.MConfig,
	srv interfaces.IDataExchanger,
	ctrl *controller.Controller,
	markets *utils.MarketScheduler,
	errs *helpers.ErrorHandler,
	shutdown func(),
	appLogger *logger.Logger,
) (*runningServers, error) {
	running := &runningServers{srv: srv, errs: errs}

	// 1. Refresh schedule
	if config.Refresh.Cron != "" {
		refresh := scheduler.NewRefreshScheduler(ctrl, markets, appLogger.Named("Refresh"))
		if err := refresh.Register(config.Refresh.Cron); err != nil {
			return nil, err
		}
		refresh.Start()
		running.refresh = refresh
	}

	// 2. HTTP + websocket
	go func() {
		if err := srv.Start(); err != nil {
			errs.Handle(err, "http server")
			shutdown()
		}
	}()

	// 3. gRPC Control Server
	control := pb.NewControlServer(config, pb.NewControlService(ctrl, appLogger.Named("ControlService")), appLogger.Named("Grpc"))
	go func() {
		if err := control.Start(); err != nil {
			errs.Handle(err, "grpc server")
			shutdown()
		}
	}()
	running.control = control

	return running, nil
}

// -----------------------------------------------------------------------------

func (r *runningServers) shutdown() {
	if r.refresh != nil {
		r.refresh.Stop()
	}
	if r.control != nil {
		r.control.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.errs.Handle(r.srv.Stop(ctx), "http shutdown")
}
