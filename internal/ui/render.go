// Package ui renders plans and outputs for the terminal and asks for the
// operator's confirmation before anything mutates.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/topology"
)

var (
	createStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	updateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	deleteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	outputsStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)

func actionSymbol(a engine.Action) string {
	switch a {
	case engine.ActionCreate:
		return createStyle.Render("+")
	case engine.ActionUpdate:
		return updateStyle.Render("~")
	case engine.ActionDelete:
		return deleteStyle.Render("-")
	default:
		return subtleStyle.Render(" ")
	}
}

// RenderPlan formats a plan for the terminal. Noop steps are summarized,
// not listed.
func RenderPlan(plan *engine.Plan) string {
	var b strings.Builder
	if plan.Destroy {
		b.WriteString(headerStyle.Render("The following resources will be destroyed:"))
	} else {
		b.WriteString(headerStyle.Render("The following changes will be applied:"))
	}
	b.WriteString("\n\n")

	unchanged := 0
	for _, c := range plan.Changes {
		if c.Action == engine.ActionNoop {
			unchanged++
			continue
		}
		fmt.Fprintf(&b, "  %s %s.%s\n", actionSymbol(c.Action), c.Decl.Kind, c.Decl.Name)
		for _, d := range c.Diffs {
			if c.Action == engine.ActionUpdate && d.Live != "" {
				fmt.Fprintf(&b, "      %s: %s -> %s\n", d.Attr, subtleStyle.Render(d.Live), d.Desired)
				continue
			}
			fmt.Fprintf(&b, "      %s: %s\n", d.Attr, d.Desired)
		}
	}

	create, update, del := plan.Summary()
	b.WriteString("\n")
	fmt.Fprintf(&b, "Plan: %d to create, %d to update, %d to delete", create, update, del)
	if unchanged > 0 {
		fmt.Fprintf(&b, ", %d unchanged", unchanged)
	}
	b.WriteString(".\n")
	return b.String()
}

// RenderOutputs formats the stack outputs after a successful apply.
func RenderOutputs(out topology.Outputs) string {
	var b strings.Builder
	b.WriteString(outputsStyle.Render("Outputs"))
	b.WriteString("\n\n")
	rows := []struct{ label, value string }{
		{"SonarQube URL", out.URL},
		{"Database endpoint", out.DatabaseEndpoint},
		{"Cluster", out.ClusterARN},
		{"Credentials secret", out.SecretARN},
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b, "  %-20s %s\n", r.label, r.value)
	}
	if out.CredentialCommand != "" {
		b.WriteString("\nRetrieve the database credentials with:\n")
		fmt.Fprintf(&b, "  %s\n", subtleStyle.Render(out.CredentialCommand))
	}
	return b.String()
}

// RenderStatuses formats the per-declaration outcome of a failed apply.
func RenderStatuses(statuses []engine.StepStatus) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Apply result:"))
	b.WriteString("\n")
	for _, s := range statuses {
		style := subtleStyle
		switch s.Status {
		case "applied":
			style = createStyle
		case "failed":
			style = deleteStyle
		case "pending":
			style = updateStyle
		}
		fmt.Fprintf(&b, "  %s.%s: %s\n", s.Kind, s.Name, style.Render(string(s.Status)))
	}
	return b.String()
}
