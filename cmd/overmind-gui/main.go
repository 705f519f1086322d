package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/darrenoakey/overmind-gui-sub000/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	server := flag.String("server", "", "daemon endpoint, host:port or URL (optional)")
	transport := flag.String("transport", "", "update transport: poll or websocket (optional)")
	pollMS := flag.Int("poll", 0, "poll interval in milliseconds (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		ServerBind: *server,
		Transport:  *transport,
	}
	if *pollMS > 0 {
		opts.PollInterval = time.Duration(*pollMS) * time.Millisecond
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "overmind-gui: %v\n", err)
		return 1
	}
	return 0
}
