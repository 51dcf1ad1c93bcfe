package main

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	_, _ = c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := daylog.NewBuilder().
		Directory("/var/log/gnet").
		Levels("debug", "info", "warning", "error").
		Build()
	if err != nil {
		panic(err)
	}
	if err := logger.Start(); err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	gnetAdapter := compat.NewStructuredGnetAdapter(logger)

	err = gnet.Run(
		&echoServer{},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Error("gnet server stopped", err)
	}
}
