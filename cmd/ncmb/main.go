// Copyright (C) 2025 SAGE-X Project
//
// This file is part of ncmb-go.
//
// ncmb-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ncmb-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ncmb-go.  If not, see <https://www.gnu.org/licenses/>.

// Command ncmb manages files in an NCMB application from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/sage-x-project/ncmb-go/pkg/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ncmb: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ncmb",
		Usage:   "NCMB mBaaS command line client",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "YAML settings file (keys, base URL, session)",
				EnvVars: []string{"NCMB_SETTINGS"},
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "dotenv file(s) read when no settings file is given",
			},
			&cli.BoolFlag{
				Name:  "validate",
				Usage: "Verify response signatures",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log every exchange",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			fileCommand(),
			configCommand(),
			{
				Name:  "version",
				Usage: "Show SDK and API versions",
				Action: func(c *cli.Context) error {
					info := version.Get()
					fmt.Fprintf(c.App.Writer, "ncmb-go %s (API %s, %s)\n", info.Version, info.APIVersion, info.SDKHeader)
					return nil
				},
			},
		},
	}
}
