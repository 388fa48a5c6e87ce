// Package summary renders reconciliation reports and project status for the terminal.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/dem/internal/core/domain"
	"go.trai.ch/dem/internal/ui/output"
	"go.trai.ch/dem/internal/ui/style"
)

const detailIndent = "    "

// Render writes one line per package operation followed by a totals line.
// Failures name the package and the install method and carry the cause below.
func Render(w io.Writer, report *domain.Report) error {
	out := output.New(w)
	var b strings.Builder

	if report.UpToDate {
		line(&b, out, style.Green, style.Check, "packages are up to date")
		_, err := io.WriteString(out, b.String())
		return err
	}

	for _, o := range report.Outcomes {
		renderOutcome(&b, out, o)
	}
	b.WriteString(totals(report))
	b.WriteString("\n")

	_, err := io.WriteString(out, b.String())
	return err
}

func renderOutcome(b *strings.Builder, out *termenv.Output, o domain.Outcome) {
	pkg := describe(o.Name, o.Version, o.Method)

	switch o.Status {
	case domain.StatusPlanned:
		if o.Action == domain.ActionRemove {
			line(b, out, style.Iris, style.Minus, "would remove "+pkg)
		} else {
			line(b, out, style.Iris, style.Plus, "would install "+pkg)
		}
	case domain.StatusSucceeded:
		if o.Action == domain.ActionRemove {
			line(b, out, style.Slate, style.Minus, "removed "+pkg)
		} else {
			line(b, out, style.Green, style.Plus, "installed "+pkg)
		}
	case domain.StatusSkipped:
		line(b, out, style.Yellow, style.Tilde, "skipped "+string(o.Action)+" of "+pkg)
		renderDetail(b, o.Err)
	case domain.StatusFailed:
		line(b, out, style.Red, style.Cross, "failed to "+string(o.Action)+" "+pkg)
		renderDetail(b, o.Err)
	}
}

func renderDetail(b *strings.Builder, err error) {
	if err == nil {
		return
	}
	for _, l := range strings.Split(detail(err), "\n") {
		b.WriteString(detailIndent + l + "\n")
	}
}

// detail drops the classification sentinel, which the headline already states.
func detail(err error) string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err.Error()
	}

	var parts []string
	for _, e := range joined.Unwrap() {
		if e == domain.ErrInstallFailed || e == domain.ErrUninstallFailed { //nolint:errorlint // identity check on sentinels
			continue
		}
		parts = append(parts, e.Error())
	}
	if len(parts) == 0 {
		return err.Error()
	}
	return strings.Join(parts, "\n")
}

func totals(report *domain.Report) string {
	if report.DryRun {
		return fmt.Sprintf("plan: %d to install, %d to remove, %d unchanged",
			report.Count(domain.ActionInstall, domain.StatusPlanned),
			report.Count(domain.ActionRemove, domain.StatusPlanned),
			len(report.Unchanged))
	}

	skipped := report.Count(domain.ActionInstall, domain.StatusSkipped) +
		report.Count(domain.ActionRemove, domain.StatusSkipped)
	failed := report.Count(domain.ActionInstall, domain.StatusFailed) +
		report.Count(domain.ActionRemove, domain.StatusFailed)

	return fmt.Sprintf("%d installed, %d removed, %d skipped, %d failed, %d unchanged",
		report.Count(domain.ActionInstall, domain.StatusSucceeded),
		report.Count(domain.ActionRemove, domain.StatusSucceeded),
		skipped,
		failed,
		len(report.Unchanged))
}

// RenderStatus writes the manifest freshness and the state of every package.
func RenderStatus(w io.Writer, status *domain.ProjectStatus) error {
	out := output.New(w)
	var b strings.Builder

	freshness := output.Paint(out, string(style.Green), "up to date")
	if !status.UpToDate {
		freshness = output.Paint(out, string(style.Yellow), "changed since last sync")
	}
	fmt.Fprintf(&b, "manifest: %s (%s)\n", status.ManifestPath, freshness)

	for _, p := range status.Packages {
		pkg := describe(p.Name, p.Version, p.Method)
		switch p.State {
		case domain.StateInstalled:
			line(&b, out, style.Green, style.Dot, pkg+" installed")
		case domain.StatePending:
			line(&b, out, style.Slate, style.Circle, pkg+" pending")
		case domain.StateChanged:
			line(&b, out, style.Yellow, style.Tilde, pkg+" changed, cached "+p.Cached.Version+" ("+string(p.Cached.Method)+")")
		case domain.StateOrphaned:
			line(&b, out, style.Red, style.Minus, pkg+" orphaned")
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func describe(name, version string, method domain.InstallMethod) string {
	return name + " " + version + " (" + string(method) + ")"
}

func line(b *strings.Builder, out *termenv.Output, color lipgloss.Color, icon, msg string) {
	b.WriteString(output.Paint(out, string(color), icon) + " " + msg + "\n")
}
