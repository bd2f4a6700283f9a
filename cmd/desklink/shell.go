package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/denisbrodbeck/machineid"
	shlex "github.com/flynn-archive/go-shlex"
	"github.com/golang/glog"

	"github.com/airalarm/desklink/pkg/calendar"
	"github.com/airalarm/desklink/pkg/proto"
	"github.com/airalarm/desklink/pkg/session"
	"github.com/airalarm/desklink/pkg/transport"
)

const unconnectedPrompt = "[none] > "

type shellEnv struct {
	cfg   Config
	shell *ishell.Shell
	sess  *session.Session
	port  string
}

func newShellEnv(cfg Config) *shellEnv {
	env := &shellEnv{cfg: cfg, shell: ishell.New()}
	env.shell.SetPrompt(unconnectedPrompt)

	env.shell.AddCmd(&ishell.Cmd{Name: "ports", Help: "list candidate serial ports", Func: env.cmdPorts})
	env.shell.AddCmd(&ishell.Cmd{Name: "connect", Help: "connect [PORT]: handshake with the MCU", Func: env.cmdConnect})
	env.shell.AddCmd(&ishell.Cmd{Name: "disconnect", Help: "tear down the session", Func: env.cmdDisconnect})
	env.shell.AddCmd(&ishell.Cmd{Name: "time", Help: "time set|get: program or read the MCU clock", Func: env.connected(env.cmdTime)})
	env.shell.AddCmd(&ishell.Cmd{Name: "upload", Help: "upload FILE.ics: send calendar events", Func: env.connected(env.cmdUpload)})
	env.shell.AddCmd(&ishell.Cmd{Name: "echo", Help: "echo [TEXT]: diagnostic round trip", Func: env.connected(env.cmdEcho)})
	env.shell.AddCmd(&ishell.Cmd{Name: "led", Help: "toggle the indicator LED", Func: env.connected(env.cmdLed)})
	env.shell.AddCmd(&ishell.Cmd{Name: "pump", Help: "run one pump tick", Func: env.connected(env.cmdPump)})
	env.shell.AddCmd(&ishell.Cmd{Name: "recv", Help: "print queued inbound messages", Func: env.connected(env.cmdRecv)})
	return env
}

// teardown closes the session if one is open.
func (e *shellEnv) teardown() {
	if e.sess == nil {
		return
	}
	if err := e.sess.Close(); err != nil {
		glog.Errorf("teardown: %v", err)
	}
	e.sess = nil
}

// runShell starts the interactive diagnostic shell.
func runShell(cfg Config) {
	env := newShellEnv(cfg)
	env.shell.Println("desklink interactive shell. Type 'help' for commands.")
	env.shell.Run()
	env.teardown()
}

// runEval executes a single shell command line non-interactively. The
// line is split the same way the interactive shell splits its input.
func runEval(cfg Config, line string) int {
	args, err := evalArgs(line)
	if err != nil {
		glog.Errorf("eval: %v", err)
		return 1
	}
	env := newShellEnv(cfg)
	defer env.teardown()
	if err := env.shell.Process(args...); err != nil {
		glog.Errorf("eval: %v", err)
		return 1
	}
	return 0
}

func evalArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

// connected wraps commands that need an open session.
func (e *shellEnv) connected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if e.sess == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

func (e *shellEnv) cmdPorts(c *ishell.Context) {
	candidates, err := transport.Candidates(e.cfg.PortPattern)
	if err != nil {
		c.Err(err)
		return
	}
	if len(candidates) == 0 {
		c.Println("no candidate ports")
		return
	}
	for _, port := range candidates {
		c.Println(port)
	}
}

func (e *shellEnv) cmdConnect(c *ishell.Context) {
	if e.sess != nil {
		c.Err(fmt.Errorf("already connected to %s", e.port))
		return
	}
	var candidates []string
	if len(c.Args) > 0 {
		candidates = c.Args
	} else {
		var err error
		if candidates, err = transport.Candidates(e.cfg.PortPattern); err != nil {
			c.Err(err)
			return
		}
	}
	engine, port, err := proto.Dial(candidates, transport.OpenSerial, e.cfg.engineOptions()...)
	if err != nil {
		c.Err(err)
		return
	}
	e.sess = session.New(engine)
	e.port = port
	e.shell.SetPrompt("[" + port + "] > ")
	c.Printf("connected to %s\n", port)
}

func (e *shellEnv) cmdDisconnect(c *ishell.Context) {
	if e.sess == nil {
		return
	}
	if err := e.sess.Close(); err != nil {
		c.Err(err)
	}
	e.sess = nil
	e.port = ""
	e.shell.SetPrompt(unconnectedPrompt)
	c.Println("disconnected")
}

func (e *shellEnv) cmdTime(c *ishell.Context) {
	if len(c.Args) == 0 {
		c.Err(fmt.Errorf("usage: time set|get"))
		return
	}
	switch c.Args[0] {
	case "set":
		e.sess.EnqueueOutbound(proto.CodeSetDateTime, time.Now().Format(calendar.TimeLayout))
		if err := e.sess.Pump(context.Background()); err != nil {
			c.Err(err)
		}
	case "get":
		e.sess.EnqueueOutbound(proto.CodeGetDateTime, "")
		reply, err := awaitReply(context.Background(), e.sess, e.cfg.PacingTimeout)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(reply.Payload)
	default:
		c.Err(fmt.Errorf("usage: time set|get"))
	}
}

func (e *shellEnv) cmdUpload(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Err(fmt.Errorf("usage: upload FILE.ics"))
		return
	}
	events, err := calendar.Load(c.Args[0])
	if err != nil {
		c.Err(err)
		return
	}
	if overlapping := calendar.Overlaps(events); len(overlapping) > 0 {
		names := make([]string, 0, len(overlapping))
		for _, event := range overlapping {
			names = append(names, event.Name)
		}
		c.Printf("warning: overlapping events: %s\n", strings.Join(names, ", "))
	}
	for _, event := range events {
		e.sess.EnqueueOutbound(proto.CodeAddEvent, event.Export())
	}
	e.sess.EnqueueOutbound(proto.CodeSchedule, "")
	if err := e.sess.Pump(context.Background()); err != nil {
		c.Err(err)
		return
	}
	c.Printf("uploaded %d events\n", len(events))
}

func (e *shellEnv) cmdEcho(c *ishell.Context) {
	payload := strings.Join(c.Args, " ")
	if payload == "" {
		payload = echoTag()
	}
	e.sess.EnqueueOutbound(proto.CodeEcho, payload)
	reply, err := awaitReply(context.Background(), e.sess, e.cfg.PacingTimeout)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(reply.Payload)
}

func (e *shellEnv) cmdLed(c *ishell.Context) {
	e.sess.EnqueueOutbound(proto.CodeLed, "")
	if err := e.sess.Pump(context.Background()); err != nil {
		c.Err(err)
	}
}

func (e *shellEnv) cmdPump(c *ishell.Context) {
	if err := e.sess.Pump(context.Background()); err != nil {
		c.Err(err)
		return
	}
	c.Printf("%d inbound queued, %d outbound queued\n",
		e.sess.PendingInbound(), e.sess.PendingOutbound())
}

func (e *shellEnv) cmdRecv(c *ishell.Context) {
	for {
		msg, ok := e.sess.DequeueInbound()
		if !ok {
			return
		}
		c.Printf("%s %q\n", strings.TrimRight(msg.Command, "\x00"), msg.Payload)
	}
}

// echoTag identifies this host in echo round trips so replies can't be
// confused with another machine's session.
func echoTag() string {
	id, err := machineid.ID()
	if err != nil || id == "" {
		return "desklink"
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return "desklink:" + id
}
