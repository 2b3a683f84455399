// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/omnihost/services/omnisharp/protocol"
)

func newCatalogCmd(a *app) *cobra.Command {
	var (
		events     bool
		version    int
		fileScoped bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List protocol commands or events",
		Long: `Lists every command the client knows with its protocol version, whether it
targets a file, and its request and response types. With --events, lists the
server events and their body types instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if events {
				a.printEvents()
				return nil
			}
			if version != 0 && version != 1 && version != 2 {
				return fmt.Errorf("--version must be 1 or 2, got %d", version)
			}
			a.printCommands(version, fileScoped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&events, "events", false, "list events instead of commands")
	cmd.Flags().IntVar(&version, "version", 0, "only commands of this protocol version (1 or 2)")
	cmd.Flags().BoolVar(&fileScoped, "file-scoped", false, "only commands that target a file")
	return cmd
}

func (a *app) printCommands(version int, fileScoped bool) {
	var rows [][]string
	for _, e := range protocol.Entries() {
		if version != 0 && e.Version != version {
			continue
		}
		if fileScoped && !e.FileScoped {
			continue
		}
		rows = append(rows, []string{
			e.Name,
			strconv.Itoa(e.Version),
			strconv.FormatBool(e.FileScoped),
			e.Request.String(),
			e.Response.String(),
		})
	}

	a.out.Title(fmt.Sprintf("%d commands", len(rows)))
	a.out.Table([]string{"COMMAND", "VERSION", "FILE", "REQUEST", "RESPONSE"}, rows)
}

func (a *app) printEvents() {
	names := protocol.EventNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		e, _ := protocol.LookupEvent(name)
		rows = append(rows, []string{name, e.Body.String()})
	}

	a.out.Title(fmt.Sprintf("%d events", len(rows)))
	a.out.Table([]string{"EVENT", "BODY"}, rows)
}
