package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultServer = "http://127.0.0.1:5660"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "streamdvr",
		Short:         "Record live streams when they go live",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := defaultServer
	if v := os.Getenv("STREAMDVR_SERVER"); v != "" {
		server = v
	}
	var jsonOut bool
	root.PersistentFlags().StringVar(&server, "server", server, "Base URL of a running daemon (client commands; env STREAMDVR_SERVER)")
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print raw JSON responses (client commands)")
	cl := func() *client { return newClient(server, jsonOut) }

	root.AddCommand(
		newServeCmd(),
		newStatusCmd(cl),
		newAddCmd(cl),
		newRemoveCmd(cl),
		newStopCmd(cl),
		newRecordCmd(cl),
		newQualitiesCmd(cl),
		newConfigCmd(cl),
		newRecordingsCmd(cl),
	)
	return root
}
