// Command clipdrop runs the upload server and the cookie bundle tools.
//
//	clipdrop              # same as "clipdrop serve"
//	clipdrop seal --in cookies.json --out cookies.enc
//	clipdrop inspect --in cookies.enc
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "clipdrop:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "clipdrop"
	app.Usage = "publish videos to TikTok with an encrypted cookie session"
	app.Version = version
	app.Action = serve
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the HTTP upload server",
			Action: serve,
		},
		{
			Name:      "seal",
			Usage:     "encrypt a cookie JSON export into a Base64 bundle",
			UsageText: "clipdrop seal --in cookies.json [--out cookies.enc]",
			Flags:     sealFlags,
			Action:    seal,
		},
		{
			Name:      "inspect",
			Usage:     "decrypt a bundle and list cookie names and domains",
			UsageText: "clipdrop inspect [--in cookies.enc]",
			Flags:     inspectFlags,
			Action:    inspect,
		},
	}
	return app
}
