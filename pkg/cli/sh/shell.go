package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/canclock/pkg/calendar"
	"github.com/robotalks/canclock/pkg/can"
	"github.com/robotalks/canclock/pkg/cli/client"
	"github.com/robotalks/canclock/pkg/protocol"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Client *client.Client
	// Statuses is nil without a telemetry broker.
	Statuses *StatusWatcher
}

const (
	shellKey = "$shell"
	prompt   = "canclock > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&TimeCmd,
		&DateCmd,
		&AlarmCmd,
		&RawCmd,
		&StatusCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(c *client.Client) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Client: c,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// DoCommand sends a command frame and prints the result.
func DoCommand(c *ishell.Context, f can.Frame) error {
	s := ShellFrom(c)
	err := s.Client.Send(context.Background(), f)
	if s.OutputJSON {
		out := map[string]interface{}{"ok": err == nil}
		if err != nil {
			out["error"] = err.Error()
		}
		data, _ := json.Marshal(out)
		c.Println(string(data))
		return err
	}
	if err != nil {
		c.Err(err)
		return err
	}
	c.Println("OK")
	return nil
}

func parseBytes(s, sep string, n int) ([]byte, error) {
	fields := strings.Split(s, sep)
	if len(fields) != n {
		return nil, fmt.Errorf("%d fields separated by %q expected", n, sep)
	}
	vals := make([]byte, n)
	for i, field := range fields {
		var v uint
		if _, err := fmt.Sscanf(field, "%d", &v); err != nil || v > 0xff {
			return nil, fmt.Errorf("invalid number %q", field)
		}
		vals[i] = byte(v)
	}
	return vals, nil
}

// ParseTime parses HH:MM:SS. Values are range checked by the appliance only.
func ParseTime(s string) (calendar.Time, error) {
	vals, err := parseBytes(s, ":", 3)
	if err != nil {
		return calendar.Time{}, err
	}
	return calendar.Time{Hour: vals[0], Minute: vals[1], Second: vals[2]}, nil
}

// ParseAlarm parses HH:MM.
func ParseAlarm(s string) (calendar.Alarm, error) {
	vals, err := parseBytes(s, ":", 2)
	if err != nil {
		return calendar.Alarm{}, err
	}
	return calendar.Alarm{Hour: vals[0], Minute: vals[1]}, nil
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (calendar.Date, error) {
	var year, month, day uint
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day); err != nil {
		return calendar.Date{}, fmt.Errorf("invalid date %q: %v", s, err)
	}
	if year > 0xffff || month > 0xff || day > 0xff {
		return calendar.Date{}, fmt.Errorf("invalid date %q", s)
	}
	return calendar.Date{Day: byte(day), Month: calendar.Month(month), Year: uint16(year)}, nil
}

// ParseRaw parses hex bytes, separated by spaces or not.
func ParseRaw(args []string) ([]byte, error) {
	return hex.DecodeString(strings.Join(args, ""))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// TimeCmd sets the time.
	TimeCmd = ishell.Cmd{
		Name:    "time",
		Aliases: []string{"t"},
		Help:    "HH:MM:SS",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("HH:MM:SS required"))
				return
			}
			t, err := ParseTime(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			DoCommand(c, protocol.TimeCommand(t))
		},
	}

	// DateCmd sets the date.
	DateCmd = ishell.Cmd{
		Name:    "date",
		Aliases: []string{"d"},
		Help:    "YYYY-MM-DD",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("YYYY-MM-DD required"))
				return
			}
			d, err := ParseDate(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			DoCommand(c, protocol.DateCommand(d))
		},
	}

	// AlarmCmd sets the alarm.
	AlarmCmd = ishell.Cmd{
		Name:    "alarm",
		Aliases: []string{"a"},
		Help:    "HH:MM",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("HH:MM required"))
				return
			}
			a, err := ParseAlarm(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			DoCommand(c, protocol.AlarmCommand(a))
		},
	}

	// RawCmd sends the data bytes of a command frame as given.
	RawCmd = ishell.Cmd{
		Name:    "raw",
		Aliases: []string{"r"},
		Help:    "HEX-BYTES",
		Func: func(c *ishell.Context) {
			data, err := ParseRaw(c.Args)
			if err != nil {
				c.Err(fmt.Errorf("invalid bytes: %v", err))
				return
			}
			f, err := can.NewFrame(can.CommandID, data)
			if err != nil {
				c.Err(err)
				return
			}
			DoCommand(c, f)
		},
	}

	// StatusCmd prints the reported status of every clock.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"s"},
		Help:    "[NODE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if s.Statuses == nil {
				c.Err(fmt.Errorf("no telemetry broker"))
				return
			}
			statuses := s.Statuses.Statuses()
			if len(c.Args) > 0 {
				if st, ok := statuses[c.Args[0]]; ok {
					statuses = map[string]*Status{c.Args[0]: st}
				} else {
					c.Err(fmt.Errorf("unknown node %q", c.Args[0]))
					return
				}
			}
			if s.OutputJSON {
				out, err := json.Marshal(statuses)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(statuses) == 0 {
				c.Println("No status received")
				return
			}
			for _, node := range SortedNodes(statuses) {
				c.Println(statuses[node].String())
			}
		},
	}
)
