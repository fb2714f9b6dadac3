// Command proxy runs the crawl fleet Proxy: it drains the collection
// queue into the shared store's seen set until signalled or the broker
// connection fails. See internal/cli for the full startup sequence.
package main

import (
	"fmt"
	"os"

	"github.com/crawlfleet/crawlfleet/internal/cli"
)

func main() {
	if err := cli.ExecuteProxy(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
