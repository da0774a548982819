package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/replistore/repcrec/internal/clock"
	"github.com/replistore/repcrec/internal/command"
	"github.com/replistore/repcrec/internal/depgraph"
	"github.com/replistore/repcrec/internal/store"
	"github.com/replistore/repcrec/internal/txn"
)

var runCmd = &cobra.Command{
	Use:   "run <script-file>",
	Short: "execute a transaction script against a fresh in-memory cluster",
	Args:  cobra.ExactArgs(1),
	Run:   run,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) {
	config := loadConfigOrPanic(cmd)
	configureLoggingOrPanic(config)

	scriptFile := args[0]
	file, err := os.Open(scriptFile)
	if err != nil {
		log.WithError(err).WithField("file", scriptFile).Error("failed to open script file")
		os.Exit(1)
	}
	defer file.Close()

	dispatcher := newDispatcherOrPanic()

	if err := dispatcher.Run(file); err != nil {
		log.WithError(err).Error("failed to read script")
		os.Exit(1)
	}
}

func loadConfigOrPanic(cmd *cobra.Command) *Config {
	config, err := LoadConfig(cmd)
	if err != nil {
		log.WithError(err).Panic("failed to load configuration")
	}
	return config
}

func configureLoggingOrPanic(config *Config) {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		log.WithError(err).Panic("invalid log level")
	}
	log.SetLevel(level)
}

func newDispatcherOrPanic() *command.Dispatcher {
	clk := clock.New()
	graph := depgraph.New()
	dataManager := store.New(clk, graph)
	service := txn.New(clk, dataManager)

	return command.NewDispatcher(service, os.Stdout)
}
