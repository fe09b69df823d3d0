package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
)

const previewLength = 60

// Report builds a markdown summary of a document: one section per design,
// with the annotation table of compiled assemblies.
// When only is non-empty, designs outside it are skipped.
func Report(doc *document.Document, only ...string) string {
	filter := make(map[string]bool, len(only))
	for _, id := range only {
		filter[id] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Document `%s`\n\n", doc.ID)

	for _, cd := range doc.ComponentDefinitions() {
		if len(filter) > 0 && !filter[cd.Identity] {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n", title(cd))
		fmt.Fprintf(&sb, "- identity: `%s`\n", cd.Identity)
		fmt.Fprintf(&sb, "- status: %s\n", cd.Status)
		if len(cd.Roles) > 0 {
			roles := make([]string, 0, len(cd.Roles))
			for _, r := range cd.Roles {
				roles = append(roles, domain.RoleName(r))
			}
			fmt.Fprintf(&sb, "- roles: %s\n", strings.Join(roles, ", "))
		}
		if seq := doc.SequenceOf(cd.Identity); seq.Resolved() {
			fmt.Fprintf(&sb, "- length: %d\n", seq.Len())
			fmt.Fprintf(&sb, "\n```\n%s\n```\n", preview(seq.Elements))
		}
		if edit := cd.Insertion; edit != nil {
			fmt.Fprintf(&sb, "- pending insertion of `%s` into `%s` at %d\n", edit.Inserted, edit.Parent, edit.Position)
		}

		if len(cd.Annotations) > 0 {
			sb.WriteString("\n| # | component | start | end | length |\n")
			sb.WriteString("|---|-----------|------:|----:|-------:|\n")
			for i, a := range cd.Annotations {
				name := a.DisplayID
				if sc, ok := cd.Component(a.Component); ok {
					name = sc.DisplayID
				}
				fmt.Fprintf(&sb, "| %d | %s | %d | %d | %d |\n", i+1, name, a.Start, a.End, a.Len())
			}
		} else if len(cd.Components) > 0 {
			names := make([]string, 0, len(cd.Components))
			for sc := range cd.PrimaryStructure() {
				names = append(names, sc.DisplayID)
			}
			fmt.Fprintf(&sb, "- primary structure: %s\n", strings.Join(names, " → "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func title(cd *domain.ComponentDefinition) string {
	if cd.Name != "" && cd.Name != cd.DisplayID {
		return fmt.Sprintf("%s (%s)", cd.DisplayID, cd.Name)
	}
	return cd.DisplayID
}

func preview(elements string) string {
	if len(elements) <= previewLength {
		return elements
	}
	return elements[:previewLength] + "…"
}
