// Package prompt assembles the system and user prompts for the incident
// assistant LLM call.
package prompt

import (
	"fmt"
	"strings"

	"incidentassist/internal/domain"
)

// System is the assistant contract sent as the system message.
const System = `You are an incident support assistant.

You are given:
1. A user prompt,
2. A list of past incidents similar to the prompt,
3. A solution guide.

Rules:
- For any incident-related question include these sections when data exists:
  "Summary", "Summary of Closure Notes" (as bullet points derived from the
  closure notes), "Steps to Resolution" (from the solution guide, only if one
  is provided), and an "Incident Summary" listing incident ID, description and
  state or closure notes per incident.
- If the user prompt is unrelated to incidents, reply only:
  "Sorry, I can only discuss incident-related issues."
- If no incidents are relevant, reply only: "No incidents found for this
  query." and skip all other sections.
- Never render values that are missing or unknown; omit a section entirely
  when it has no valid data.

Respond in plain text with the section headings above. Do not invent incident
data.`

// Incidents formats the incident context block included in the user prompt.
// Empty fields are skipped so the model never sees placeholder values.
func Incidents(incidents []domain.Incident) string {
	if len(incidents) == 0 {
		return "No incidents found."
	}
	var b strings.Builder
	for i, inc := range incidents {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Incident %d:\n", i+1)
		writeField(&b, "Incident ID", inc.ID)
		writeField(&b, "Job Name", inc.JobName)
		writeField(&b, "Description", inc.Description)
		writeField(&b, "Impact", inc.Impact)
		writeField(&b, "Closure Notes", inc.ClosureNotes)
		writeField(&b, "Assigned To", inc.AssignedTo)
		writeField(&b, "Assignment Group", inc.AssignmentGroup)
		writeField(&b, "Configuration Item", inc.ConfigurationItem)
		writeField(&b, "CI Class", inc.CIClass)
		writeField(&b, "Opened By", inc.OpenedBy)
		writeField(&b, "Resolved By", inc.ResolvedBy)
		writeField(&b, "Closed By", inc.ClosedBy)
		writeField(&b, "Opened Time", inc.OpenedTime)
		writeField(&b, "Resolved Time", inc.ResolvedTime)
		writeField(&b, "Closed Time", inc.ClosedTime)
		writeField(&b, "Priority", inc.Priority)
		writeField(&b, "Urgency", inc.Urgency)
		writeField(&b, "State", inc.State)
	}
	return b.String()
}

// ClosureNotes collects the non-empty closure notes, one line per incident.
func ClosureNotes(incidents []domain.Incident) string {
	var lines []string
	for _, inc := range incidents {
		notes := strings.TrimSpace(inc.ClosureNotes)
		if notes == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("Incident %s: %s", inc.ID, notes))
	}
	return strings.Join(lines, "\n")
}

// User builds the user prompt from the query, the solution guide text, the
// closure-notes digest and the formatted incident context.
func User(query, solutionGuide, closureDigest, incidentContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Prompt: %q\n\n", query)
	if solutionGuide != "" {
		b.WriteString("Solution Guide (for original steps):\n")
		b.WriteString(solutionGuide)
		b.WriteString("\n\n")
	}
	if closureDigest != "" {
		b.WriteString("Closure Notes from Similar Incidents (for practical resolution steps):\n")
		b.WriteString(closureDigest)
		b.WriteString("\n\n")
	}
	b.WriteString("Relevant Incidents:\n")
	b.WriteString(incidentContext)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
