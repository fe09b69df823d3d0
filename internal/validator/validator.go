package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
)

// Kind classifies a validation issue.
type Kind string

const (
	KindMissingReference Kind = "missing_reference"
	KindCycle            Kind = "cycle"
	KindUnresolvable     Kind = "unresolvable_leaf"
	KindInvalidSequence  Kind = "invalid_sequence"
	KindPending          Kind = "pending"
)

// Issue is a single finding about a design or sequence.
type Issue struct {
	Design  string
	Kind    Kind
	Message string
	// Warning issues do not fail validation.
	Warning bool
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Design, i.Message)
}

// Report aggregates the issues found in a document.
type Report struct {
	Issues []Issue
}

// Err joins every non-warning issue, or returns nil when there is none.
func (r *Report) Err() error {
	var errs []error
	for _, issue := range r.Issues {
		if !issue.Warning {
			errs = append(errs, issue)
		}
	}
	return errors.Join(errs...)
}

// Warnings returns the warning issues only.
func (r *Report) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Warning {
			out = append(out, issue)
		}
	}
	return out
}

// String renders the report as a bullet list.
func (r *Report) String() string {
	if len(r.Issues) == 0 {
		return "no issues"
	}
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		prefix := "error"
		if issue.Warning {
			prefix = "warning"
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", prefix, issue.Error()))
	}
	return strings.Join(lines, "\n")
}

func (r *Report) add(design string, kind Kind, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Design: design, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warn(design string, kind Kind, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Design: design, Kind: kind, Message: fmt.Sprintf(format, args...), Warning: true})
}

// Validate checks a document for broken references, cycles, leaves that can
// never supply elements and sequences that do not match their encoding.
// Pending designs are reported as warnings.
func Validate(doc *document.Document) *Report {
	r := &Report{}
	designs := doc.ComponentDefinitions()

	edges := make(map[string][]string, len(designs))
	for _, cd := range designs {
		for _, ref := range dependencies(cd) {
			if _, err := doc.ComponentDefinition(ref); err != nil {
				r.add(cd.Identity, KindMissingReference, "references unknown design %s", ref)
				continue
			}
			edges[cd.Identity] = append(edges[cd.Identity], ref)
		}
		if cd.Status.IsPending() {
			r.warn(cd.Identity, KindPending, "design is %s", cd.Status)
		}
	}

	for _, cycle := range findCycles(designs, edges) {
		r.add(cycle[0], KindCycle, "%s", strings.Join(cycle, " -> "))
	}

	referenced := make(map[string]string)
	for _, cd := range designs {
		if !cd.Status.IsPending() {
			continue
		}
		for _, ref := range edges[cd.Identity] {
			if _, seen := referenced[ref]; !seen {
				referenced[ref] = cd.Identity
			}
		}
	}
	for _, cd := range designs {
		parent, ok := referenced[cd.Identity]
		if !ok || cd.Status.IsPending() {
			continue
		}
		if _, resolved := doc.Elements(cd.Identity); !resolved {
			r.add(cd.Identity, KindUnresolvable, "has no sequence elements but is used by %s", parent)
		}
	}

	for _, seq := range doc.Sequences() {
		if err := seq.Validate(); err != nil {
			r.add(seq.Identity, KindInvalidSequence, "%v", err)
		}
	}
	return r
}

func dependencies(cd *domain.ComponentDefinition) []string {
	var refs []string
	for _, sc := range cd.Components {
		refs = append(refs, sc.Definition)
	}
	if cd.Insertion != nil {
		refs = append(refs, cd.Insertion.Parent, cd.Insertion.Inserted)
	}
	return refs
}

// findCycles walks the dependency graph depth first and returns one path per
// back edge, each starting and ending with the repeated identity.
func findCycles(designs []*domain.ComponentDefinition, edges map[string][]string) [][]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(designs))
	var (
		stack  []string
		cycles [][]string
		seen   = make(map[string]bool)
	)

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		for _, next := range edges[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				path := append(append([]string{}, stack[start:]...), next)
				if key := cycleKey(path); !seen[key] {
					seen[key] = true
					cycles = append(cycles, path)
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, cd := range designs {
		if color[cd.Identity] == white {
			visit(cd.Identity)
		}
	}
	return cycles
}

func cycleKey(path []string) string {
	members := append([]string{}, path[:len(path)-1]...)
	sort.Strings(members)
	return strings.Join(members, "|")
}
