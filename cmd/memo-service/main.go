package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/snowman-se/bad-memo-app/memoservice"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	if err := memoservice.Run(memoservice.Options{BuildTarget: *buildTarget}); err != nil {
		log.Error().Err(err).Msg("memo-service exited with error")
		os.Exit(1)
	}
}
