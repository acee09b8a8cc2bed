// Package config holds the options of the appliance: built-in defaults,
// CANCLOCK_* environment overrides, an optional YAML file and command line
// flags, applied in that order.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/canclock/pkg/framework"
)

// Periods are the task periods, each a multiple of the tick.
type Periods struct {
	Serial    time.Duration `yaml:"serial"`
	Clock     time.Duration `yaml:"clock"`
	Heartbeat time.Duration `yaml:"heartbeat"`
	Watchdog  time.Duration `yaml:"watchdog"`
	Display   time.Duration `yaml:"display"`
	Telemetry time.Duration `yaml:"telemetry"`
}

// Config is the configuration of the appliance.
type Config struct {
	// Node names this appliance on shared buses and in telemetry topics.
	Node string `yaml:"node"`

	// BusURL selects the CAN bus:
	//
	//	loop://                           in-process loopback
	//	mqtt://host:1883/prefix/          virtual bus over MQTT
	//	serial:///dev/ttyUSB0?baud=115200 length prefixed frames on a serial line
	//	tcp://host:port                   length prefixed frames on TCP
	//	ws://host:port/path               frames as websocket messages
	BusURL string `yaml:"bus"`

	// ListenAddr serves a websocket gateway to the bus when not empty.
	ListenAddr string `yaml:"listen"`
	ListenPath string `yaml:"listen-path"`

	// TelemetryURL is the MQTT broker status reports go to, empty disables.
	TelemetryURL string `yaml:"telemetry"`

	Tick           time.Duration `yaml:"tick"`
	Periods        Periods       `yaml:"periods"`
	MaxTasks       int           `yaml:"max-tasks"`
	MaxTimers      int           `yaml:"max-timers"`
	RxQueueSize    int           `yaml:"rx-queue"`
	EventQueueSize int           `yaml:"event-queue"`

	// Console renders the LCD on stdout and reads button presses from stdin.
	Console bool `yaml:"console"`
}

var defaultConfig = Config{
	Node:       "canclock",
	BusURL:     "loop://",
	ListenPath: "/can",
	Tick:       10 * time.Millisecond,
	Periods: Periods{
		Serial:    100 * time.Millisecond,
		Clock:     100 * time.Millisecond,
		Heartbeat: 300 * time.Millisecond,
		Watchdog:  250 * time.Millisecond,
		Display:   500 * time.Millisecond,
		Telemetry: time.Second,
	},
	MaxTasks:       8,
	MaxTimers:      4,
	RxQueueSize:    8,
	EventQueueSize: 4,
	Console:        true,
}

var (
	flagConfig Config
	configFile string
	appliers   map[string]func(*Config)
)

func init() {
	if id := MachineID(); id != "" {
		defaultConfig.Node = id
	}
	if val := os.Getenv("CANCLOCK_NODE"); val != "" {
		defaultConfig.Node = val
	}
	if val := os.Getenv("CANCLOCK_BUS"); val != "" {
		defaultConfig.BusURL = val
	}
	if val := os.Getenv("CANCLOCK_LISTEN"); val != "" {
		defaultConfig.ListenAddr = val
	}
	if val := os.Getenv("CANCLOCK_TELEMETRY_URL"); val != "" {
		defaultConfig.TelemetryURL = val
	}
	configFile = os.Getenv("CANCLOCK_CONFIG")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	SetupFlagSet(flag.CommandLine)
}

// SetupFlagSet registers the options on fs.
func SetupFlagSet(fs *flag.FlagSet) {
	flagConfig = defaultConfig
	fs.StringVar(&configFile, "config", configFile, "YAML config file")
	fs.StringVar(&flagConfig.Node, "node", flagConfig.Node, "Node name")
	fs.StringVar(&flagConfig.BusURL, "bus", flagConfig.BusURL, "CAN bus URL")
	fs.StringVar(&flagConfig.ListenAddr, "listen", flagConfig.ListenAddr, "Websocket gateway listen address")
	fs.StringVar(&flagConfig.TelemetryURL, "telemetry", flagConfig.TelemetryURL, "MQTT broker URL for status reports")
	fs.DurationVar(&flagConfig.Tick, "tick", flagConfig.Tick, "Scheduler tick")
	fs.BoolVar(&flagConfig.Console, "console", flagConfig.Console, "Render LCD on stdout, read button from stdin")
	appliers = map[string]func(*Config){
		"node":      func(c *Config) { c.Node = flagConfig.Node },
		"bus":       func(c *Config) { c.BusURL = flagConfig.BusURL },
		"listen":    func(c *Config) { c.ListenAddr = flagConfig.ListenAddr },
		"telemetry": func(c *Config) { c.TelemetryURL = flagConfig.TelemetryURL },
		"tick":      func(c *Config) { c.Tick = flagConfig.Tick },
		"console":   func(c *Config) { c.Console = flagConfig.Console },
	}
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	conf := NewConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return conf, nil
}

// Resolve builds the Config from the config file (if any) and the flags
// explicitly set on fs, then validates it.
func Resolve(fs *flag.FlagSet) (*Config, error) {
	conf := NewConfig()
	if configFile != "" {
		loaded, err := Load(configFile)
		if err != nil {
			return nil, err
		}
		conf = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		if apply, ok := appliers[f.Name]; ok {
			apply(conf)
		}
	})
	if err := Validate(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the options, all problems are reported together.
func Validate(c *Config) error {
	var errs framework.AggregatedError
	if c.Node == "" {
		errs.Add(fmt.Errorf("node must be specified"))
	}
	if u, err := url.Parse(c.BusURL); err != nil {
		errs.Add(fmt.Errorf("bus: %w", err))
	} else if _, ok := busSchemes[u.Scheme]; !ok {
		errs.Add(fmt.Errorf("bus: unsupported scheme %q", u.Scheme))
	}
	if c.TelemetryURL != "" {
		if _, err := url.Parse(c.TelemetryURL); err != nil {
			errs.Add(fmt.Errorf("telemetry: %w", err))
		}
	}
	if c.Tick < time.Millisecond || c.Tick%time.Millisecond != 0 {
		errs.Add(fmt.Errorf("tick %v must be a whole number of milliseconds", c.Tick))
	}
	for _, p := range []struct {
		name   string
		period time.Duration
	}{
		{"serial", c.Periods.Serial},
		{"clock", c.Periods.Clock},
		{"heartbeat", c.Periods.Heartbeat},
		{"watchdog", c.Periods.Watchdog},
		{"display", c.Periods.Display},
		{"telemetry", c.Periods.Telemetry},
	} {
		if c.Tick > 0 && (p.period <= c.Tick || p.period%c.Tick != 0) {
			errs.Add(fmt.Errorf("%s period %v must be a multiple of tick %v", p.name, p.period, c.Tick))
		}
	}
	if c.MaxTasks < 6 {
		errs.Add(fmt.Errorf("max-tasks %d can't hold all tasks", c.MaxTasks))
	} else if c.MaxTasks > framework.MaxTasks {
		errs.Add(fmt.Errorf("max-tasks %d exceeds %d", c.MaxTasks, framework.MaxTasks))
	}
	if c.MaxTimers < 1 {
		errs.Add(fmt.Errorf("max-timers %d can't hold the refresh timer", c.MaxTimers))
	} else if c.MaxTimers > framework.MaxTimers {
		errs.Add(fmt.Errorf("max-timers %d exceeds %d", c.MaxTimers, framework.MaxTimers))
	}
	if c.RxQueueSize <= 0 || c.EventQueueSize <= 0 {
		errs.Add(fmt.Errorf("queue sizes must be positive"))
	}
	return errs.Aggregate()
}

var busSchemes = map[string]struct{}{
	"loop":   {},
	"mqtt":   {},
	"serial": {},
	"tcp":    {},
	"ws":     {},
	"wss":    {},
}
