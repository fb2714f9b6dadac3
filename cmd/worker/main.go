// Command worker runs the crawl fleet Worker: it drains the frontier
// queue and resolves each task through the pipeline until signalled or
// the broker connection fails. See internal/cli for the full startup
// sequence.
package main

import (
	"fmt"
	"os"

	"github.com/crawlfleet/crawlfleet/internal/cli"
)

func main() {
	if err := cli.ExecuteWorker(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
