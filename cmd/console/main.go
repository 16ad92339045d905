// cmd/console/main.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Interactive demonstration shell for the console engine: registers a few
// commands and variables, replays any requested script, and then reads
// lines from stdin, echoing interaction log items as they are produced.
// Command history is persisted across sessions.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mmp/console/args"
	"github.com/mmp/console/console"
	"github.com/mmp/console/log"
	"github.com/mmp/console/util"
)

var (
	logLevel    = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "log file directory")
	historyFile = flag.String("history", "", "path for persisted command history (default: alongside the log)")
	scriptFile  = flag.String("script", "", "script file to run before reading from stdin")
)

const historyFilename = "history.msgpack.zst"

func main() {
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	path := util.Select(*historyFile != "", *historyFile,
		filepath.Join(lg.LogDir, historyFilename))

	sys := console.New(lg)
	registerBuiltins(sys)

	if err := loadHistory(sys, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		lg.Warnf("%s: %v", path, err)
	}

	if *scriptFile != "" {
		if err := sys.RegisterScript("startup", *scriptFile); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		sys.RunScript("startup")
	}

	repl(sys)

	if err := saveHistory(sys, path); err != nil {
		lg.Errorf("%s: %v", path, err)
	}
}

func registerBuiltins(sys *console.System) {
	check := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	check(sys.RegisterCommand("echo", "Print the given string",
		func(s string) { fmt.Println(s) },
		args.New[string]("text")))

	check(sys.RegisterCommand("sum", "Print the sum of a list of numbers",
		func(ns []float64) {
			total := 0.0
			for _, n := range ns {
				total += n
			}
			fmt.Println(total)
		},
		args.New[[]float64]("numbers")))

	verbosity := 0
	check(console.RegisterVariable(sys, "verbosity", &verbosity))

	greeting := "hello"
	check(console.RegisterVariableWithSetter(sys, "greeting", &greeting,
		func(v *string, s string) {
			if s != "" {
				*v = s
			}
		},
		args.New[string]("text")))
}

func repl(sys *console.System) {
	seen := len(sys.Items())
	flush := func() {
		for _, it := range sys.Items()[seen:] {
			fmt.Println(it)
		}
		seen = len(sys.Items())
	}
	flush()

	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("# ")
	for sc.Scan() {
		line := sc.Text()
		if line == "exit" || line == "quit" {
			return
		}

		sys.RunCommand(line)
		flush()
		fmt.Print("# ")
	}
}

// History is persisted as a msgpack-encoded string slice, compressed with
// zstd.

func loadHistory(sys *console.System, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var lines []string
	if err := msgpack.NewDecoder(zr).Decode(&lines); err != nil {
		return fmt.Errorf("failed to decode history: %w", err)
	}

	for _, line := range lines {
		sys.History().PushBack(line)
	}
	return nil
}

func saveHistory(sys *console.System, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	if err := msgpack.NewEncoder(zw).Encode(sys.History().Lines()); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}
