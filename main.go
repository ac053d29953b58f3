package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nstehr/rampart/agent"
	"github.com/nstehr/rampart/greedy"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/journal"
	"github.com/nstehr/rampart/rules"
)

const banner = `
█▀█ ▄▀█ █▀▄▀█ █▀█ ▄▀█ █▀█ ▀█▀
█▀▄ █▀█ █ ▀ █ █▀▀ █▀█ █▀▄  █

Greedy Terminal Strategist`

type options struct {
	doctrine   string
	journalDir string
	logLevel   string
	workers    int
	socket     string
	dump       string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// stdout carries the protocol, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(opts.logLevel),
	}))
	slog.SetDefault(logger)

	if opts.dump != "" {
		if err := dump(opts.dump, os.Stdout); err != nil {
			slog.Error("dump failed", "path", opts.dump, "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintln(os.Stderr, banner)

	d, err := rules.LoadDoctrine(opts.doctrine)
	if err != nil {
		slog.Error("failed to load doctrine", "doctrine", opts.doctrine, "error", err)
		os.Exit(1)
	}
	if opts.workers > 0 {
		d.Workers = opts.workers
		d.Validate()
	}
	plannerOpts, opening, err := d.Planner()
	if err != nil {
		slog.Error("invalid doctrine", "doctrine", d.Name, "error", err)
		os.Exit(1)
	}
	engine, err := rules.NewEngine(rules.CompileDoctrine(d))
	if err != nil {
		slog.Error("failed to compile rules", "doctrine", d.Name, "error", err)
		os.Exit(1)
	}
	planner := greedy.NewPlanner(plannerOpts)
	slog.Info("starting rampart", "doctrine", d.Name, "rules", engine.Names(), "workers", plannerOpts.Workers, "opening", string(opening.Mode))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	play := func(ctx context.Context, r io.Reader, w io.Writer) error {
		var j *journal.Writer
		if opts.journalDir != "" {
			jw, err := journal.Create(opts.journalDir, time.Now())
			if err != nil {
				return err
			}
			j = jw
			defer func() {
				if err := j.Close(); err != nil {
					slog.Warn("failed to close journal", "path", j.Path(), "error", err)
				}
			}()
			slog.Info("journaling turns", "path", j.Path())
		}
		conn := ipc.NewConnection(r, w, nil)
		agent.New(engine, planner, opening, j).Register(conn)
		return conn.ReadLoop(ctx)
	}

	if opts.socket == "" {
		if err := play(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("game aborted", "error", err)
			os.Exit(1)
		}
		slog.Info("shutting down")
		return
	}
	if err := serve(ctx, opts.socket, play); err != nil {
		slog.Error("socket server failed", "path", opts.socket, "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("rampart", flag.ContinueOnError)
	fs.StringVar(&o.doctrine, "doctrine", "greed", "doctrine YAML file or built-in preset name (greed, fortress)")
	fs.StringVar(&o.journalDir, "journal", "", "directory for the compressed per-turn journal; empty disables it")
	fs.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.IntVar(&o.workers, "workers", 0, "placement scoring workers; overrides the doctrine when > 0")
	fs.StringVar(&o.socket, "socket", "", "serve games on this unix socket instead of stdin/stdout")
	fs.StringVar(&o.dump, "dump", "", "print a journal file as JSON lines and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// serve accepts local connections, one game per connection.
func serve(ctx context.Context, socketPath string, play func(context.Context, io.Reader, io.Writer) error) error {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket: %w", err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer os.Remove(socketPath)
	slog.Info("listening on domain socket", "path", socketPath)

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				slog.Info("shutting down")
				return nil
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}
		slog.Info("new connection accepted")
		go func() {
			defer conn.Close()
			if err := play(ctx, conn, conn); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("game aborted", "error", err)
			}
		}()
	}
}

func dump(path string, w io.Writer) error {
	recs, err := journal.ReadFile(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
