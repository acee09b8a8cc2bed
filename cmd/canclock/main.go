package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/canclock/pkg/app"
	"github.com/robotalks/canclock/pkg/app/config"
	"github.com/robotalks/canclock/pkg/framework"
)

func init() {
	config.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf, err := config.Resolve(flag.CommandLine)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	var opts app.Options
	if conf.Console {
		opts.Display, opts.ButtonInput = os.Stdout, os.Stdin
	}
	c, err := app.New(conf, opts)
	if err != nil {
		glog.Exitf("start: %v", err)
	}
	runner := framework.NewRunner().HandleSignals()
	if err = c.Run(runner.Context); err != nil {
		glog.Exitf("stopped: %v", err)
	}
}
