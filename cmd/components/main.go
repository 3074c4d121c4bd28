// Command components lists, runs and serves the workflow components.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/pipeline-components/pkg/apps/adalo"
	"github.com/Sternrassler/pipeline-components/pkg/apps/twitter"
	"github.com/Sternrassler/pipeline-components/pkg/component"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(newRegistry())
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// newRegistry registers every built-in component.
func newRegistry() *component.Registry {
	registry := component.NewRegistry()
	registry.MustRegister(adalo.Actions()...)
	registry.MustRegister(twitter.Actions()...)
	return registry
}
