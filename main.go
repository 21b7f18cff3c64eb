package main

import (
	"dashcfg/internal/di"
	"dashcfg/internal/structures"
	"flag"
	"log"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "", "path to a YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log at debug level")
	flag.BoolVar(&flags.DevMode, "dev", false, "simulate device commands and keep settings in the working directory")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		log.Fatalf("dashboard config server: %s", err)
	}
}
