package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/app"
	"github.com/robotalks/canclock/pkg/app/config"
	"github.com/robotalks/canclock/pkg/cli/client"
	"github.com/robotalks/canclock/pkg/cli/sh"
	"github.com/robotalks/canclock/pkg/framework"
)

//go-build: CGO_ENABLED=0

var timeout = client.DefaultTimeout

func init() {
	config.SetupFlags()
	flag.DurationVar(&timeout, "timeout", timeout, "Reply timeout")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := config.Resolve(flag.CommandLine)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cli *client.Client
	if conf.BusURL == "loop://" {
		// no bus to reach an appliance, run one in process
		conf.Console, conf.ListenAddr = false, ""
		c, err := app.New(conf, app.Options{})
		if err != nil {
			glog.Exitf("start: %v", err)
		}
		cli = client.New(c.Loopback)
		c.Loopback.Attach(cli)
		go c.Run(ctx)
	} else {
		e, err := app.OpenEndpoint(conf.BusURL, "cli-"+conf.Node)
		if err != nil {
			glog.Exitf("bus: %v", err)
		}
		defer e.Close()
		cli = client.New(e.Port)
		e.Port.Handler = cli
		framework.NewRunnerWith(ctx).Go(e.Runnables...)
	}
	cli.Timeout = timeout

	shell := sh.New(cli)
	if conf.TelemetryURL != "" {
		q, err := app.ConnectMQTT(conf.TelemetryURL, "cli-"+conf.Node+"-status")
		if err != nil {
			glog.Exitf("telemetry: %v", err)
		}
		defer q.Close()
		shell.Statuses = sh.WatchStatus(q)
		defer shell.Statuses.Close()
	}
	shell.Run(flag.Args()...)
}
