package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yash-Rathee/Blog-Notification/internal/app"
	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

func main() {
	var (
		cfgPath   string
		watchMode bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to config file (default ./blognotify.yaml when present)")
	flag.BoolVar(&watchMode, "watch", false, "keep running and check the feed on the configured schedule")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	if !watchMode {
		_, err := a.RunOnce(ctx)
		if err != nil {
			a.Log().Error("run failed", logx.Err(err))
		}
		_ = a.Stop(context.Background())
		if err != nil {
			os.Exit(1)
		}
		return
	}

	if err := a.StartWatch(ctx); err != nil {
		a.Log().Error("start failed", logx.Err(err))
		_ = a.Stop(context.Background())
		os.Exit(1)
	}

	<-ctx.Done()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	_ = a.Stop(stopCtx)
}
