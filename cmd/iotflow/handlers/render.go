package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/orchestration"
	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/provisioning/credentials"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// renderRunSummary describes what a run created, or where it stopped.
func renderRunSummary(cfg *config.Config, target provisioning.CallerIdentity, state *provisioning.State, runID string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  iotflow apply: %s", cfg.Identity.ThingName)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  account %s, region %s, run %s", target.Account, target.Region, runID)))
	b.WriteString("\n\n")

	if state.Failure != nil {
		b.WriteString(failStyle.Render("  " + orchestration.Summary(state)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Resources created before the failure were kept."))
		b.WriteString("\n")
	} else {
		b.WriteString(okStyle.Render("  " + state.Stage.String()))
		b.WriteString("\n")
	}

	if id := state.Identity; id != nil {
		writeSection(&b, "Device")
		writeRow(&b, "Thing", id.ThingARN)
		writeRow(&b, "Certificate", id.CertificateID)
		writeRow(&b, "Policy", id.PolicyName)
		writeRow(&b, "Files", fmt.Sprintf("%s/{%s,%s,%s}", id.CertsDir,
			credentials.CertificateFile, credentials.PrivateKeyFile, credentials.TrustAnchorFile))
	}
	if a := state.Analytics; a != nil {
		writeSection(&b, "Analytics")
		writeRow(&b, "Channel", a.ChannelARN)
		writeRow(&b, "Datastore", a.DatastoreARN)
		writeRow(&b, "Pipeline", a.PipelineARN)
		writeRow(&b, "Dataset", a.DatasetARN)
	}
	if r := state.Role; r != nil {
		writeSection(&b, "Execution role")
		writeRow(&b, "Role", r.RoleARN)
		writeRow(&b, "Policy", r.PolicyARN)
		writeRow(&b, "Scope", r.ChannelResource)
	}
	if r := state.Rule; r != nil {
		writeSection(&b, "Topic rule")
		writeRow(&b, "Rule", r.RuleARN)
	}
	if state.DataEndpoint != "" {
		writeSection(&b, "Device endpoint")
		writeRow(&b, "MQTT", state.DataEndpoint+":8883")
	}

	b.WriteString("\n")
	return b.String()
}

// renderPlan lists planned requests grouped by phase.
func renderPlan(target provisioning.CallerIdentity, plan []orchestration.PlannedRequest) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  iotflow plan: account %s, region %s", target.Account, target.Region)))
	b.WriteString("\n")

	phase := ""
	for i, p := range plan {
		if p.Phase != phase {
			phase = p.Phase
			writeSection(&b, phase)
		}
		line := fmt.Sprintf("    %2d. %-30s %s", i+1, p.Operation, p.Resource)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
		if p.Detail != "" {
			b.WriteString(dimStyle.Render("        " + p.Detail))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d requests. Nothing was created.", len(plan))))
	b.WriteString("\n")
	return b.String()
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 35)))
	b.WriteString("\n")
}

func writeRow(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "    %-12s %s\n", label+":", value)
}
