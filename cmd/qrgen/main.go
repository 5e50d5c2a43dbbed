// Command qrgen renders a QR code from the command line.
//
//	qrgen -t wifi -f ssid=Home -f password=secret -o wifi.png
//	qrgen -t url -f url=https://example.com --kind vector -o - > code.svg
//	qrgen -t vcard -f firstName=Ada -f lastName=Lovelace --payload
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/qrforge/qrforge/pkg/logger"
)

func main() {
	log := logger.New(logger.WithTextFormatter(), logger.WithOutput(os.Stderr))
	if err := newApp(log).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "qrgen:", err)
		os.Exit(1)
	}
}
