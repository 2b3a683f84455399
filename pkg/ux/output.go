// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package ux provides terminal output styling for the omnihost CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette - deep ocean teals
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // main brand color
	ColorTealDeep    = lipgloss.Color("#16858E") // borders, accents
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles holds the shared lipgloss styles.
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Header   lipgloss.Style
	Box      lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle: lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:     lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(ColorSlate),
	Success:  lipgloss.NewStyle().Foreground(ColorTealBright),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Error:    lipgloss.NewStyle().Foreground(ColorError),
	Header:   lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
)

func (i Icon) style() lipgloss.Style {
	switch i {
	case IconSuccess:
		return Styles.Success
	case IconWarning:
		return Styles.Warning
	case IconError:
		return Styles.Error
	default:
		return Styles.Muted
	}
}

// Mode selects how much decoration a Printer emits.
type Mode int

const (
	// ModeRich uses colors, icons and boxes.
	ModeRich Mode = iota

	// ModePlain uses icons without colors.
	ModePlain

	// ModeMachine emits tab-separated lines for scripts.
	ModeMachine
)

// ParseMode parses auto, rich, plain or machine. "auto" and "" detect
// from out.
func ParseMode(s string, out io.Writer) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectMode(out), nil
	case "rich":
		return ModeRich, nil
	case "plain":
		return ModePlain, nil
	case "machine":
		return ModeMachine, nil
	default:
		return ModePlain, fmt.Errorf("unknown output mode %q (want auto, rich, plain or machine)", s)
	}
}

// DetectMode returns ModeRich for a terminal and ModePlain otherwise.
// NO_COLOR forces ModePlain.
func DetectMode(out io.Writer) Mode {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return ModePlain
	}
	f, ok := out.(*os.File)
	if !ok {
		return ModePlain
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return ModeRich
	}
	return ModePlain
}

// Printer writes styled output. It is not safe for concurrent use.
type Printer struct {
	out  io.Writer
	mode Mode
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{out: out, mode: mode}
}

// Mode returns the printer's mode.
func (p *Printer) Mode() Mode { return p.mode }

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.mode != ModeRich {
		return text
	}
	return style.Render(text)
}

// Title prints a section title. Machine mode prints nothing.
func (p *Printer) Title(text string) {
	if p.mode == ModeMachine {
		return
	}
	fmt.Fprintln(p.out, p.render(Styles.Title, text))
}

// Status prints a line prefixed with icon.
func (p *Printer) Status(icon Icon, text string) {
	switch p.mode {
	case ModeMachine:
		fmt.Fprintf(p.out, "%s\t%s\n", machineTag(icon), text)
	case ModePlain:
		fmt.Fprintf(p.out, "%s %s\n", icon, text)
	default:
		style := icon.style()
		fmt.Fprintf(p.out, "%s %s\n", style.Render(string(icon)), style.Render(text))
	}
}

// Success prints a success line.
func (p *Printer) Success(text string) { p.Status(IconSuccess, text) }

// Warning prints a warning line.
func (p *Printer) Warning(text string) { p.Status(IconWarning, text) }

// Error prints an error line.
func (p *Printer) Error(text string) { p.Status(IconError, text) }

func machineTag(icon Icon) string {
	switch icon {
	case IconSuccess:
		return "OK"
	case IconWarning:
		return "WARN"
	case IconError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Field prints "key: value". Machine mode prints "key\tvalue".
func (p *Printer) Field(key, value string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.out, "%s\t%s\n", key, value)
		return
	}
	fmt.Fprintf(p.out, "  %s %s\n", p.render(Styles.Muted, key+":"), value)
}

// Table prints rows under headers with padded columns. Machine mode
// omits the header and separates columns with tabs.
func (p *Printer) Table(headers []string, rows [][]string) {
	if p.mode == ModeMachine {
		for _, row := range rows {
			fmt.Fprintln(p.out, strings.Join(row, "\t"))
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			text := cell
			if i < len(cells)-1 {
				text += strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2)
			}
			b.WriteString(text)
		}
		if style != nil {
			return p.render(*style, b.String())
		}
		return b.String()
	}

	fmt.Fprintln(p.out, line(headers, &Styles.Header))
	for _, row := range rows {
		fmt.Fprintln(p.out, line(row, nil))
	}
}

// Box prints content under title in a rounded box.
func (p *Printer) Box(title, content string) {
	switch p.mode {
	case ModeMachine:
		fmt.Fprintf(p.out, "%s\t%s\n", title, strings.ReplaceAll(content, "\n", " "))
	case ModePlain:
		fmt.Fprintf(p.out, "%s\n%s\n", title, content)
	default:
		fmt.Fprintln(p.out, Styles.Box.Render(Styles.Title.Render(title)+"\n"+content))
	}
}
