package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/apilevel/internal/app"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/ui/style"
)

// printer writes results either as styled text lines or as one JSON document per line.
type printer struct {
	w    io.Writer
	json bool

	label   lipgloss.Style
	value   lipgloss.Style
	success lipgloss.Style
	missing lipgloss.Style
}

func (c *CLI) printer(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(c.colorMode(w).Profile())
	return &printer{
		w:       w,
		json:    c.flags.json,
		label:   r.NewStyle().Inherit(style.Label),
		value:   r.NewStyle().Inherit(style.Value),
		success: r.NewStyle().Inherit(style.Success),
		missing: r.NewStyle().Inherit(style.Missing),
	}
}

func (p *printer) encode(v any) error {
	return json.NewEncoder(p.w).Encode(v)
}

func (p *printer) line(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func (p *printer) answer(a app.Answer) error {
	if p.json {
		return p.encode(a)
	}
	return p.line(p.format(a))
}

func (p *printer) format(a app.Answer) string {
	switch a.Kind {
	case app.KindPackage:
		if a.Valid {
			return a.Subject + " " + p.success.Render("valid")
		}
		return a.Subject + " " + p.missing.Render("invalid")
	case app.KindSuper:
		if a.Superclass == "" {
			return a.Subject + " " + p.missing.Render("has no superclass")
		}
		return a.Subject + " " + p.label.Render("extends") + " " + p.value.Render(a.Superclass)
	case app.KindCast:
		if !a.Since.Found() {
			return a.Subject + " " + p.missing.Render("not castable")
		}
		return a.Subject + p.level("since", a.Since)
	}

	if !a.Since.Found() {
		return a.Subject + " " + p.missing.Render("not found")
	}
	var b strings.Builder
	b.WriteString(a.Subject)
	b.WriteString(p.level("since", a.Since))
	if a.Deprecated.Found() {
		b.WriteString(p.level("deprecated", a.Deprecated))
	}
	if a.Removed.Found() {
		b.WriteString(p.level("removed", a.Removed))
	}
	return b.String()
}

func (p *printer) level(name string, l domain.APILevel) string {
	return " " + p.label.Render(name+"=") + p.value.Render(l.String())
}

func (p *printer) warm(r app.WarmResult) error {
	if p.json {
		return p.encode(r)
	}
	return p.line(fmt.Sprintf("%s %s (%d classes)", p.value.Render(r.Platform), r.Path, r.Classes))
}

func (p *printer) removed(path string) error {
	if p.json {
		return p.encode(struct {
			Removed string `json:"removed"`
		}{path})
	}
	return p.line(p.label.Render("removed") + " " + path)
}
