package compiler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/strand/pkg/document"
	"github.com/aretw0/strand/pkg/domain"
)

const annotationSuffix = "_annotation"

// errUnresolved marks a design that has neither elements nor pending state.
var errUnresolved = errors.New("design has no sequence and nothing to compile")

// plan is the computed, not yet committed, result for one design.
type plan struct {
	design   *domain.ComponentDefinition
	kind     domain.CompileKind
	elements string
	encoding string
	spans    []span

	// filled by prepare
	seq         *domain.Sequence
	newSeq      bool
	annotations []domain.SequenceAnnotation
}

type span struct {
	component  string
	displayID  string
	start, end int
}

// resolver walks the design graph depth-first and computes a plan for every
// pending design reached. Nothing in the document changes until commit.
type resolver struct {
	doc    *document.Document
	plans  map[string]*plan
	order  []string // post-order: dependencies before dependents
	path   []string
	onPath map[string]bool
}

func newResolver(doc *document.Document) *resolver {
	return &resolver{
		doc:    doc,
		plans:  make(map[string]*plan),
		onPath: make(map[string]bool),
	}
}

func (r *resolver) add(p *plan) {
	r.plans[p.design.Identity] = p
	r.order = append(r.order, p.design.Identity)
}

// resolve returns the elements and encoding design id contributes, planning
// its compilation when needed.
func (r *resolver) resolve(id string) (string, string, error) {
	if seq := r.doc.SequenceOf(id); seq.Resolved() {
		return seq.Elements, seq.Encoding, nil
	}
	if p, ok := r.plans[id]; ok {
		return p.elements, p.encoding, nil
	}
	if r.onPath[id] {
		path := append([]string(nil), r.path...)
		return "", "", &domain.CycleError{Path: append(path, id)}
	}

	cd, err := r.doc.ComponentDefinition(id)
	if err != nil {
		return "", "", err
	}

	r.path = append(r.path, id)
	r.onPath[id] = true
	defer func() {
		r.path = r.path[:len(r.path)-1]
		delete(r.onPath, id)
	}()

	var p *plan
	switch cd.Status {
	case domain.StatusPendingAssembly:
		p, err = r.planAssembly(cd)
	case domain.StatusPendingInsertion:
		p, err = r.planInsertion(cd)
	default:
		return "", "", errUnresolved
	}
	if err != nil {
		return "", "", err
	}
	r.add(p)
	return p.elements, p.encoding, nil
}

func (r *resolver) planAssembly(cd *domain.ComponentDefinition) (*plan, error) {
	if len(cd.Components) == 0 {
		return nil, &domain.AssemblyError{Design: cd.Identity, Reason: "no primary structure to compile"}
	}
	p := &plan{design: cd, kind: domain.CompileAssembly}

	var buf []byte
	start := 1
	for sc := range cd.PrimaryStructure() {
		elements, encoding, err := r.resolve(sc.Definition)
		if err != nil {
			var cycle *domain.CycleError
			var missing *domain.MissingSequenceError
			if errors.As(err, &cycle) || errors.As(err, &missing) {
				return nil, err
			}
			if errors.Is(err, errUnresolved) {
				err = nil
			}
			return nil, &domain.MissingSequenceError{
				Design:     cd.Identity,
				Component:  sc.Identity,
				Definition: sc.Definition,
				Err:        err,
			}
		}
		if p.encoding == "" {
			p.encoding = encoding
		} else if p.encoding != encoding {
			return nil, &domain.AssemblyError{
				Design: cd.Identity,
				Reason: fmt.Sprintf("sub-component %s is %s, expected %s", sc.DisplayID, encoding, p.encoding),
			}
		}

		end := start + len(elements) - 1
		p.spans = append(p.spans, span{component: sc.Identity, displayID: sc.DisplayID, start: start, end: end})
		buf = append(buf, elements...)
		start = end + 1
	}
	p.elements = string(buf)
	return p, nil
}

func (r *resolver) planInsertion(cd *domain.ComponentDefinition) (*plan, error) {
	edit := cd.Insertion
	if edit == nil {
		return nil, &domain.InsertionError{Design: cd.Identity, Reason: "no pending insertion"}
	}
	if cd.Sequence != "" {
		return nil, &domain.InsertionError{Design: cd.Identity, Reason: "design already has a sequence"}
	}
	dst, dstEnc, err := r.resolve(edit.Parent)
	if err != nil {
		return nil, r.insertionCause(cd, "parent", edit.Parent, err)
	}
	ins, insEnc, err := r.resolve(edit.Inserted)
	if err != nil {
		return nil, r.insertionCause(cd, "inserted design", edit.Inserted, err)
	}
	if dstEnc != insEnc {
		return nil, &domain.InsertionError{
			Design: cd.Identity,
			Reason: fmt.Sprintf("encoding mismatch between %s and %s", edit.Parent, edit.Inserted),
		}
	}
	return &plan{
		design:   cd,
		kind:     domain.CompileInsertion,
		elements: Splice(dst, ins, edit.Position),
		encoding: dstEnc,
	}, nil
}

func (r *resolver) insertionCause(cd *domain.ComponentDefinition, role, ref string, err error) error {
	if errors.Is(err, errUnresolved) {
		return &domain.InsertionError{
			Design: cd.Identity,
			Reason: fmt.Sprintf("%s %s has no sequence elements", role, ref),
		}
	}
	return err
}

// prepare mints every identity the commit needs and checks for conflicts, so
// that commit cannot fail halfway.
func (r *resolver) prepare() error {
	ns := r.doc.Namespace()
	taken := make(map[string]bool)

	for _, id := range r.order {
		p := r.plans[id]
		cd := p.design

		if existing := r.doc.SequenceOf(id); existing != nil {
			p.seq = existing
		} else {
			seqID, displayID, err := r.mintSequenceID(cd.DisplayID+"_seq", taken)
			if err != nil {
				return err
			}
			taken[seqID] = true
			p.seq = &domain.Sequence{Identity: seqID, DisplayID: displayID, Owner: id}
			p.newSeq = true
		}

		p.annotations = make([]domain.SequenceAnnotation, 0, len(p.spans))
		for _, s := range p.spans {
			displayID := s.displayID + annotationSuffix
			annID, err := ns.Child(cd.Identity, displayID)
			if err != nil {
				return &domain.AssemblyError{Design: id, Reason: err.Error()}
			}
			p.annotations = append(p.annotations, domain.SequenceAnnotation{
				Identity:  annID,
				DisplayID: displayID,
				Component: s.component,
				Start:     s.start,
				End:       s.end,
			})
		}
	}
	return nil
}

func (r *resolver) mintSequenceID(base string, taken map[string]bool) (string, string, error) {
	ns := r.doc.Namespace()
	displayID := base
	for n := 2; ; n++ {
		id, err := ns.Resolve(displayID)
		if err != nil {
			return "", "", err
		}
		if _, err := r.doc.Sequence(id); err != nil && !taken[id] {
			return id, displayID, nil
		}
		displayID = base + "_" + strconv.Itoa(n)
	}
}

// commit applies every plan. New sequences are registered in one atomic call
// before any design is touched.
func (r *resolver) commit() error {
	var fresh []*domain.Sequence
	for _, id := range r.order {
		p := r.plans[id]
		if p.newSeq {
			p.seq.Elements = p.elements
			p.seq.Encoding = p.encoding
			fresh = append(fresh, p.seq)
		}
	}
	if len(fresh) > 0 {
		if err := r.doc.AddSequences(domain.Many(fresh...)); err != nil {
			return err
		}
	}

	for _, id := range r.order {
		p := r.plans[id]
		cd := p.design
		if !p.newSeq {
			p.seq.Elements = p.elements
			p.seq.Encoding = p.encoding
		}
		cd.Sequence = p.seq.Identity
		cd.Annotations = p.annotations
		for i := range cd.Components {
			for _, a := range p.annotations {
				if a.Component == cd.Components[i].Identity {
					cd.Components[i].Annotation = a.Identity
					break
				}
			}
		}
		cd.Insertion = nil
		cd.Status = domain.StatusCompiled
	}
	return nil
}
