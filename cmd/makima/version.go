package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func makimaVersion() string {
	version := "<unknown>"
	info, ok := debug.ReadBuildInfo()
	if ok {
		for _, kv := range info.Settings {
			if kv.Key == "vcs.revision" && kv.Value != "" {
				version = kv.Value
			}
		}
	}
	return version
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(makimaVersion())
		},
	}
}
