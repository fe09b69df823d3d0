package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
)

// Overlay marks designs to highlight on the rendered graph.
type Overlay struct {
	// Focus is the design the reader is looking at, drawn with a thick border.
	Focus string
}

// GenerateMermaid produces a Mermaid flowchart of the design hierarchy.
// Shapes follow how a design gets its sequence:
// - Leaf part: [Rectangle]
// - Assembly: [[Subroutine]]
// - Insertion: {{Hexagon}}
// Assembly edges are labelled with the 1-based order of the sub-component;
// insertion edges are dotted and carry the requested position.
func GenerateMermaid(doc *document.Document, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ns := doc.Namespace()
	designs := doc.ComponentDefinitions()
	for _, cd := range designs {
		safeID := sanitizeMermaidID(cd.DisplayID)

		opener, closer := "[", "]"
		switch {
		case cd.Insertion != nil:
			opener, closer = "{{", "}}"
		case len(cd.Components) > 0:
			opener, closer = "[[", "]]"
		}

		label := cd.DisplayID
		if elements, ok := doc.Elements(cd.Identity); ok {
			label = fmt.Sprintf("%s <br/> %d bp", cd.DisplayID, len(elements))
		}
		if cd.HasRole(domain.RoleEngineeredRegion) || len(cd.Roles) == 0 {
			fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
		} else {
			fmt.Fprintf(&sb, "    %s%s\"%s <br/> <i>%s</i>\"%s\n", safeID, opener, label, domain.RoleName(cd.Roles[0]), closer)
		}

		for _, sc := range cd.Components {
			child := sanitizeMermaidID(ns.DisplayID(sc.Definition))
			fmt.Fprintf(&sb, "    %s -- \"%d\" --> %s\n", safeID, sc.Index+1, child)
		}
		if edit := cd.Insertion; edit != nil {
			fmt.Fprintf(&sb, "    %s -. \"into\" .-> %s\n", safeID, sanitizeMermaidID(ns.DisplayID(edit.Parent)))
			fmt.Fprintf(&sb, "    %s -. \"@%d\" .-> %s\n", safeID, edit.Position, sanitizeMermaidID(ns.DisplayID(edit.Inserted)))
		}
	}

	sb.WriteString("\n    %% Status Styles\n")
	sb.WriteString("    classDef compiled fill:#e8f5e9,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef pending fill:#fff8e1,stroke:#f9a825,stroke-dasharray: 4 2,color:#000;\n")
	for _, cd := range designs {
		switch {
		case cd.Status == domain.StatusCompiled:
			fmt.Fprintf(&sb, "    class %s compiled;\n", sanitizeMermaidID(cd.DisplayID))
		case cd.Status.IsPending():
			fmt.Fprintf(&sb, "    class %s pending;\n", sanitizeMermaidID(cd.DisplayID))
		}
	}

	if overlay != nil && overlay.Focus != "" {
		focus := overlay.Focus
		if id, err := doc.Resolve(focus); err == nil {
			focus = ns.DisplayID(id)
		}
		sb.WriteString("    classDef focus stroke-width:4px;\n")
		fmt.Fprintf(&sb, "    class %s focus;\n", sanitizeMermaidID(focus))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
