/*
Playground application driving the engine package: a demo scene rendered
through the Vulkan frame loop.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/diazflack01/vulkan-playground/engine"
	"github.com/diazflack01/vulkan-playground/engine/config"
	"github.com/diazflack01/vulkan-playground/engine/core"
)

func main() {
	path := "config.toml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(path)
	if err != nil {
		core.LogWarn("config %s not loadable (%s), using defaults", path, err)
		cfg = config.Default()
	}
	core.SetLogLevel(cfg.LogLevel)

	eng, err := engine.New(cfg)
	if err != nil {
		panic(err)
	}

	if err := eng.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		_ = eng.Shutdown()
		os.Exit(0)
	}()

	if err := eng.Run(); err != nil {
		panic(err)
	}

	if err := eng.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
}
