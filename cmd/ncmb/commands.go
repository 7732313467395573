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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/service"
)

func fileCommand() *cli.Command {
	return &cli.Command{
		Name:  "file",
		Usage: "File store commands",
		Subcommands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Upload a local file",
				ArgsUsage: "NAME PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "acl", Usage: `ACL JSON, e.g. {"*":{"read":true}}`},
				},
				Action: fileSave,
			},
			{
				Name:      "fetch",
				Usage:     "Download a file",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to this path instead of stdout"},
				},
				Action: fileFetch,
			},
			{
				Name:      "delete",
				Usage:     "Delete a file",
				ArgsUsage: "NAME",
				Action:    fileDelete,
			},
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Settings commands",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective settings without secrets",
				Action: func(c *cli.Context) error {
					cfg, err := loadContext(c)
					if err != nil {
						return err
					}
					s := cfg.Settings()
					fmt.Fprintf(c.App.Writer, "base_url:            %s\n", s.BaseURL)
					fmt.Fprintf(c.App.Writer, "api_version:         %s\n", s.APIVersion)
					fmt.Fprintf(c.App.Writer, "response_validation: %t\n", s.ResponseValidation)
					fmt.Fprintf(c.App.Writer, "logged_in:           %t\n", s.SessionToken != "")
					return nil
				},
			},
			{
				Name:      "save",
				Usage:     "Write the effective settings to a YAML file",
				ArgsUsage: "PATH",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: ncmb config save PATH", 2)
					}
					cfg, err := loadContext(c)
					if err != nil {
						return err
					}
					return config.SaveSettings(c.Args().First(), cfg.Settings())
				},
			},
		},
	}
}

// loadContext builds the Context from --settings, or from the environment
// and dotenv files.
func loadContext(c *cli.Context) (*config.Context, error) {
	var (
		s   *config.Settings
		err error
	)
	if path := c.String("settings"); path != "" {
		s, err = config.LoadSettings(path)
	} else {
		s, err = config.SettingsFromEnv(c.StringSlice("env-file")...)
	}
	if err != nil {
		return nil, err
	}
	if c.IsSet("validate") {
		s.ResponseValidation = c.Bool("validate")
	}
	return config.FromSettings(s)
}

func files(c *cli.Context) (*service.FileService, error) {
	cfg, err := loadContext(c)
	if err != nil {
		return nil, err
	}
	return service.Files(cfg)
}

func fileSave(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: ncmb file save NAME PATH", 2)
	}
	data, err := os.ReadFile(c.Args().Get(1))
	if err != nil {
		return err
	}
	fs, err := files(c)
	if err != nil {
		return err
	}

	var acl []byte
	if raw := c.String("acl"); raw != "" {
		acl = []byte(raw)
	}
	result, err := fs.Save(context.Background(), c.Args().First(), data, acl)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func fileFetch(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: ncmb file fetch NAME", 2)
	}
	fs, err := files(c)
	if err != nil {
		return err
	}
	data, err := fs.Fetch(context.Background(), c.Args().First())
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		return os.WriteFile(out, data, 0o644)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func fileDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: ncmb file delete NAME", 2)
	}
	fs, err := files(c)
	if err != nil {
		return err
	}
	if err := fs.Delete(context.Background(), c.Args().First()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", c.Args().First())
	return nil
}
