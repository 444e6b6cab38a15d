package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/classmate-dev/classmate"
	"github.com/classmate-dev/classmate/internal/hostd"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the editor-host daemon (HTTP API + WebSocket)",
	Long: `Serve the workspace index to editing hosts: snapshot queries, name
generation, completion candidates and change-event triggering over HTTP, plus
a WebSocket feed of index invalidations. Watches the workspace for document
changes unless --no-watch is given.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// .env feeds the environment provider; a missing file is fine.
		_ = godotenv.Load()
		return loadConfig(cmd)
	},
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "Listen address (default 127.0.0.1:7345)")
	f.Bool("no-watch", false, "Do not watch the workspace for changes")
	f.Bool("auto", false, "Fill empty class/id attributes reported via /api/changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := classmate.NewWorkspace(buildWorkspaceConfig(), logger)
	if err != nil {
		return err
	}
	index := classmate.NewIndex(ws, logger)
	session := classmate.NewSession(index, classmate.NewGenerator())

	server := hostd.New(hostd.Options{
		Session:   session,
		Trigger:   classmate.NewTrigger(session, buildTriggerConfig()),
		Completer: classmate.NewCompleter(index),
		Workspace: ws,
		Logger:    logger,
	})

	if watch := getBoolWithFallback("", "serve.watch", true) && !k.Bool("no-watch"); watch {
		watcher, err := classmate.NewWatcher(ws, index, logger)
		if err != nil {
			return err
		}
		watcher.OnEvent(func(ev classmate.WatchEvent) {
			server.NotifyIndexEvent("invalidated", ev)
		})
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
	}

	addr := getStringWithFallback("addr", "serve.addr", "127.0.0.1:7345")
	return server.Serve(ctx, addr)
}
