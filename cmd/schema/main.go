package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/topicclusters/pkg/config"
)

type options struct {
	Out   string `short:"o" long:"out" default:"pkg/config/schema.json" description:"schema output file"`
	Check bool   `long:"check" description:"fail if the output file differs from the generated schema"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	schema, err := config.GenerateSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if opts.Check {
		current, err := os.ReadFile(opts.Out)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.Out, err)
		}
		if !bytes.Equal(bytes.TrimSpace(current), bytes.TrimSpace(data)) {
			return fmt.Errorf("%s is stale, regenerate it", opts.Out)
		}
		log.Printf("[INFO] %s is up to date", opts.Out)
		return nil
	}

	if err := os.WriteFile(opts.Out, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}
	log.Printf("[INFO] schema written to %s", opts.Out)
	return nil
}
