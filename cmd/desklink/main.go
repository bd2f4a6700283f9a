package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/airalarm/desklink/pkg/calendar"
	"github.com/airalarm/desklink/pkg/monitor"
	"github.com/airalarm/desklink/pkg/proto"
	"github.com/airalarm/desklink/pkg/run"
	"github.com/airalarm/desklink/pkg/session"
	"github.com/airalarm/desklink/pkg/transport"
)

//go-build: CGO_ENABLED=0

var (
	configPath string
	portPath   string
	icsPath    string
	mqttURL    string
	shellMode  bool
	evalLine   string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to TOML config file.")
	flag.StringVar(&portPath, "port", "", "Serial device path. Skips port enumeration.")
	flag.StringVar(&icsPath, "ics", "", "ICS calendar file to upload.")
	flag.StringVar(&mqttURL, "mqtt", "", "MQTT broker URL for mirroring. Overrides the config file.")
	flag.BoolVar(&shellMode, "shell", false, "Start the interactive shell.")
	flag.StringVar(&evalLine, "e", "", "Run one shell command and exit.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := loadConfig(configPath)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	cfg = overrideConfig(cfg, mqttURL)

	switch {
	case evalLine != "":
		os.Exit(runEval(cfg, evalLine))
	case shellMode:
		runShell(cfg)
	default:
		os.Exit(runOnce(cfg))
	}
}

// overrideConfig applies command-line overrides on top of the loaded
// config.
func overrideConfig(cfg Config, mqttURL string) Config {
	if mqttURL != "" {
		cfg.MQTTURL = mqttURL
	}
	return cfg
}

func candidatePorts(cfg Config) ([]string, error) {
	if portPath != "" {
		return []string{portPath}, nil
	}
	return transport.Candidates(cfg.PortPattern)
}

// runOnce performs the non-interactive flow: connect, program the MCU
// clock, upload the schedule, tear down. A machine without an MCU is
// not an error.
func runOnce(cfg Config) int {
	candidates, err := candidatePorts(cfg)
	if err != nil {
		glog.Errorf("enumerate ports: %v", err)
		return 1
	}
	if len(candidates) == 0 {
		fmt.Println("There are no serial ports available on the machine.")
		return 0
	}

	engine, path, err := proto.Dial(candidates, transport.OpenSerial, cfg.engineOptions()...)
	if err != nil {
		fmt.Println("No connection could be established with MCU.")
		return 0
	}
	fmt.Printf("Connected to port %s\n", path)

	ctx := run.SignalContext(context.Background())
	sess := session.New(engine)
	var td run.Teardown
	defer func() {
		// Teardown runs on every exit path, interrupts included.
		td.Add(sess.Close())
		if err := td.Err(); err != nil {
			glog.Errorf("teardown: %v", err)
		}
		fmt.Printf("Disconnected from port %s\n", path)
	}()

	var mirror *monitor.Mirror
	if cfg.MQTTURL != "" {
		if mirror, err = monitor.NewMirror(cfg.MQTTURL); err != nil {
			glog.Errorf("mirror: %v", err)
			return 1
		}
		if err = mirror.Connect(); err != nil {
			// Observation is optional; the session proceeds without it.
			glog.Warningf("mirror connect: %v", err)
			mirror = nil
		} else {
			defer mirror.Close()
		}
	}

	if err := program(ctx, sess, mirror, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\nUser terminated program.")
			return 0
		}
		glog.Errorf("session: %v", err)
		td.Add(err)
		return 1
	}
	return 0
}

// program sets the MCU clock, reads it back, then uploads either the
// events from the given ICS file or the built-in demo schedule.
func program(ctx context.Context, sess *session.Session, mirror *monitor.Mirror, cfg Config) error {
	fmt.Println("Setting MCU time...")
	sess.EnqueueOutbound(proto.CodeSetDateTime, time.Now().Format(calendar.TimeLayout))
	sess.EnqueueOutbound(proto.CodeGetDateTime, "")

	reply, err := awaitReply(ctx, sess, cfg.PacingTimeout)
	if err != nil {
		return err
	}
	if mirror != nil {
		mirror.Publish(reply)
	}
	fmt.Printf("The MCU's time is now:  %s\n", reply.Payload)

	events, err := scheduleEvents()
	if err != nil {
		return err
	}
	if overlapping := calendar.Overlaps(events); len(overlapping) > 0 {
		glog.Warningf("%d events overlap their neighbors", len(overlapping)/2+1)
	}

	for _, event := range events {
		sess.EnqueueOutbound(proto.CodeAddEvent, event.Export())
	}
	sess.EnqueueOutbound(proto.CodeSchedule, "")
	fmt.Printf("Uploading %d events...\n", len(events))

	for sess.PendingOutbound() > 0 {
		if err := sess.Pump(ctx); err != nil {
			return err
		}
	}
	drainInbound(sess, mirror)
	return nil
}

func scheduleEvents() ([]calendar.Event, error) {
	if icsPath == "" {
		return calendar.DemoSchedule(time.Now()), nil
	}
	fmt.Printf("Uploading from %s\n", icsPath)
	return calendar.Load(icsPath)
}

// replyPollInterval paces awaitReply between pump ticks, well under a
// single frame read timeout.
const replyPollInterval = 50 * time.Millisecond

// awaitReply pumps until the MCU delivers a non-pacing message.
func awaitReply(ctx context.Context, sess *session.Session, timeout time.Duration) (proto.Message, error) {
	deadline := time.Now().Add(timeout)
	for sess.PendingInbound() == 0 {
		if time.Now().After(deadline) {
			return proto.Message{}, fmt.Errorf("no reply from MCU within %s", timeout)
		}
		if err := sess.Pump(ctx); err != nil {
			return proto.Message{}, err
		}
		time.Sleep(replyPollInterval)
	}
	msg, _ := sess.DequeueInbound()
	return msg, nil
}

func drainInbound(sess *session.Session, mirror *monitor.Mirror) {
	for {
		msg, ok := sess.DequeueInbound()
		if !ok {
			return
		}
		if mirror != nil {
			mirror.Publish(msg)
		}
		glog.V(1).Infof("inbound %s %q", msg.Command, msg.Payload)
	}
}
