package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/compat"
)

func main() {
	logger, err := daylog.NewBuilder().
		Directory("/var/log/fasthttp").
		Levels("info", "notice", "warning", "error").
		BufferSize(2048).
		SyncInterval(5 * time.Second).
		Build()
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(daylog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	server := &fasthttp.Server{
		Handler: requestHandler(logger),
		Logger:  fasthttpAdapter,

		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Error("server stopped", err)
	}
}

func requestHandler(logger *daylog.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetContentType("text/plain")
		fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
		logger.Notice("served", string(ctx.Method()), string(ctx.Path()), ctx.RemoteAddr())
	}
}

func customLevelDetector(msg string) string {
	if strings.Contains(msg, "connection cannot be served") {
		return daylog.LevelWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return daylog.LevelError
	}

	return compat.DetectLogLevel(msg)
}
