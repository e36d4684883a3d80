package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/services"
)

// RenderPlan prints a planning result in a friendly, ASCII-first format.
func RenderPlan(w io.Writer, result services.PlanResult) {
	fmt.Fprintf(w, "Plan for: %s\n", result.Goal)
	if len(result.Actions) == 0 {
		fmt.Fprintln(w, "No actions generated.")
	}
	for i, action := range result.Actions {
		flags := actionFlags(action)
		fmt.Fprintf(w, "%2d. %s%s\n", i+1, action.Name, flags)
		if action.Payload != "" {
			fmt.Fprintf(w, "      %s\n", action.Payload)
		}
	}
	if len(result.Knowledge) > 0 {
		fmt.Fprintln(w, "\nKnowledge grounding:")
		RenderHits(w, result.Knowledge)
	}
	fmt.Fprintf(w, "\nGenerated in %s", result.Duration.Round(10*time.Millisecond))
	if result.AuditLogged {
		fmt.Fprint(w, " (audit logged)")
	}
	fmt.Fprintln(w)
}

func actionFlags(action domain.PlanAction) string {
	var flags []string
	if action.Sensitive {
		flags = append(flags, "sensitive")
	}
	if action.PreviewRequired {
		flags = append(flags, "preview required")
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

// RenderHits prints knowledge search results in server order.
func RenderHits(w io.Writer, hits []domain.QueryHit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for i, hit := range hits {
		fmt.Fprintf(w, "%2d. score %.2f  %s\n", i+1, hit.Score, hit.DisplayText())
	}
}

// RenderDocuments prints index summary entries.
func RenderDocuments(w io.Writer, docs []domain.KnowledgeDocument) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents indexed yet.")
		return
	}
	for _, doc := range docs {
		fmt.Fprintf(w, "%s  %s (%s)\n", doc.ID, doc.Source, humanize.Time(doc.Timestamp))
		if doc.Preview != "" {
			fmt.Fprintf(w, "    %s\n", doc.Preview)
		}
	}
}

// RenderDocumentDetail prints a full document body.
func RenderDocumentDetail(w io.Writer, detail domain.KnowledgeDocumentDetail) {
	fmt.Fprintf(w, "Document %s\n", detail.ID)
	fmt.Fprintf(w, "Source: %s · Indexed %s\n\n", detail.Source, humanize.Time(detail.Timestamp))
	fmt.Fprintln(w, detail.Text)
}

// RenderAuditTrail prints audit events, newest first.
func RenderAuditTrail(w io.Writer, events []domain.AuditEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "Audit trail is empty (or audit logging is disabled).")
		return
	}
	for _, event := range events {
		eventType := event.Type
		if eventType == "" {
			eventType = "event"
		}
		fmt.Fprintf(w, "%s · %s\n", eventType, humanize.Time(event.Timestamp))
		keys := make([]string, 0, len(event.Payload))
		for key := range event.Payload {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(w, "    %s: %s\n", key, event.Payload[key])
		}
	}
}

// RenderPlugins prints plugin manifests with signature state.
func RenderPlugins(w io.Writer, plugins []domain.PluginManifest) {
	if len(plugins) == 0 {
		fmt.Fprintln(w, "No plugins discovered.")
		return
	}
	for _, plugin := range plugins {
		signed := "unsigned"
		if plugin.SignatureValid() {
			signed = "signed"
		}
		fmt.Fprintf(w, "%s v%s (%s)\n", plugin.Name, plugin.Version, signed)
		if len(plugin.Scopes) > 0 {
			fmt.Fprintf(w, "    scopes: %s\n", strings.Join(plugin.Scopes, ", "))
		}
		if len(plugin.Capabilities) > 0 {
			fmt.Fprintf(w, "    capabilities: %s\n", strings.Join(plugin.Capabilities, ", "))
		}
	}
}

// RenderHealth prints the status line the way the dashboards do: online
// with counts, or offline with the underlying message appended.
func RenderHealth(w io.Writer, health domain.DaemonHealth, err error) {
	if err != nil {
		fmt.Fprintf(w, "Offline · %v\n", err)
		return
	}
	status := "Online"
	if !health.OK {
		status = "Degraded"
	}
	fmt.Fprintf(w, "%s · %d documents indexed", status, health.DocumentCount)
	if health.Backend.Plugins > 0 {
		fmt.Fprintf(w, " · %d plugins", health.Backend.Plugins)
	}
	fmt.Fprintln(w)
	if health.Backend.Host != "" {
		fmt.Fprintf(w, "Backend: %s\n", health.Backend.Host)
	}
}

// RenderReport prints doctor check results.
func RenderReport(w io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		marker := map[domain.CheckStatus]string{
			domain.CheckOK:    "ok",
			domain.CheckWarn:  "warn",
			domain.CheckError: "fail",
		}[check.Status]
		fmt.Fprintf(w, "[%-4s] %s: %s\n", marker, check.Name, check.Details)
	}
}

// RenderHistory prints local plan run records.
func RenderHistory(w io.Writer, records []domain.PlanRunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No plan runs recorded yet.")
		return
	}
	for _, rec := range records {
		outcome := "ok"
		if !rec.Success {
			outcome = "failed"
		}
		fmt.Fprintf(w, "%s  %s  %d actions  %s\n", humanize.Time(rec.Timestamp), outcome, rec.ActionCount, rec.Goal)
		if rec.Error != "" {
			fmt.Fprintf(w, "    %s\n", rec.Error)
		}
	}
}
