package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"segmeter/host/board"
	"segmeter/host/config"
	"segmeter/host/logging"
	"segmeter/host/serial"
	"segmeter/host/sim"
)

var (
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
	configPath = flag.String("config", "segmeter.toml", "Config file path")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	simulate   = flag.Bool("sim", false, "Talk to an in-process simulated board")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, *configPath)
	if err != nil {
		return err
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}

	err = logging.Init(logging.Options{
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		Console:   *verbose,
		Debug:     *verbose || cfg.Logging.Debug,
	})
	if err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := flag.Args()
	if len(args) > 0 && args[0] == "ports" {
		return listPorts(os.Stdout)
	}
	if len(args) > 1 && args[0] == "config" && args[1] == "init" {
		return initConfig(fs, *configPath, cfg, os.Stdout)
	}

	port, simBoard, cleanup, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	b := board.New(port,
		board.WithAckTimeout(cfg.AckTimeout()),
		board.WithRetries(cfg.Board.Retries),
		board.WithRetryDelay(cfg.RetryDelay()),
	)
	defer b.Close()

	sess := &session{
		board:     b,
		sim:       simBoard,
		fs:        fs,
		tasksFile: cfg.TasksFile,
		out:       os.Stdout,
	}

	if len(args) > 0 {
		_, err := sess.exec(ctx, args)
		return err
	}

	return repl(ctx, sess, os.Stdin)
}

// connect opens the configured serial device, or starts a simulated board
func connect(ctx context.Context, cfg config.Values) (io.ReadWriteCloser, *sim.Sim, func(), error) {
	if *simulate {
		s := sim.New()
		ctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := s.Run(ctx); err != nil {
				log.Error().Err(err).Msg("simulated board failed")
			}
		}()
		fmt.Println("Using simulated board")
		return s.HostPort(), s, func() { cancel(); <-done }, nil
	}

	ok, err := serial.Available(cfg.Serial.Device)
	if err != nil {
		log.Warn().Err(err).Msg("could not enumerate serial ports")
	} else if !ok {
		return nil, nil, nil, fmt.Errorf("serial port %s not found (try 'ports')", cfg.Serial.Device)
	}

	fmt.Printf("Connecting to board on %s at %d baud...\n", cfg.Serial.Device, cfg.Serial.Baud)
	portCfg := serial.DefaultConfig(cfg.Serial.Device)
	portCfg.Baud = cfg.Serial.Baud
	portCfg.ReadTimeout = cfg.Serial.ReadTimeoutMS

	port, err := serial.Open(portCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := port.Flush(); err != nil {
		log.Debug().Err(err).Msg("flush failed")
	}
	log.Info().Str("device", cfg.Serial.Device).Int("baud", cfg.Serial.Baud).Msg("serial port open")

	return port, nil, func() {}, nil
}

func repl(ctx context.Context, sess *session, in io.Reader) error {
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := sess.exec(ctx, strings.Fields(line))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if quit {
			fmt.Println("Goodbye!")
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func listPorts(out io.Writer) error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(out, "No serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Fprintln(out, p)
	}
	return nil
}

// initConfig writes the effective configuration, flags included, to path.
// An existing file is left alone.
func initConfig(fs afero.Fs, path string, v config.Values, out io.Writer) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := config.Save(fs, path, v); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
