package ast

import "fmt"

// ResolveError reports a referrer that does not resolve, or a duplicate tag
// within a single tagged collection (§3 invariants).
type ResolveError struct {
	Kind    string
	Message string
}

func (e ResolveError) Error() string {
	return fmt.Sprintf("aml resolve error (%v): %v", e.Kind, e.Message)
}

type key struct {
	Category Category
	Name     string
}

// Resolver answers "what declaration does this Referrer point at" without
// the AST nodes themselves holding back-pointers.
type Resolver struct {
	byName map[key]Type
}

// BuildResolver walks every declaration in file and indexes the ones that
// can be referred to. It does not itself validate referrers; call
// ValidateReferences for that.
func BuildResolver(file *AmlFile) *Resolver {
	r := &Resolver{byName: make(map[key]Type)}
	for _, decl := range file.Declarations {
		if decl.TypeDef == nil {
			continue
		}
		if name, cat, ok := DeclaredName(decl.TypeDef); ok {
			r.byName[key{cat, name}] = decl.TypeDef
		}
	}
	return r
}

// Resolve looks up the declaration a Referrer points at.
func (r *Resolver) Resolve(ref *Referrer) (Type, bool) {
	t, ok := r.byName[key{ref.Category, ref.Name}]
	return t, ok
}

// ValidateReferences walks the full AST (including nested members) and
// fails fatally on the first Referrer that does not resolve within file, or
// the first duplicate tag within a TaggedStruct/TaggedUnion/Enumeration.
func ValidateReferences(file *AmlFile) error {
	r := BuildResolver(file)

	for _, decl := range file.Declarations {
		if decl.TypeDef != nil {
			if err := walkType(r, decl.TypeDef); err != nil {
				return err
			}
		}
		if decl.Block != nil {
			if err := walkBlock(r, decl.Block); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkType(r *Resolver, t Type) error {
	switch v := t.(type) {
	case *Referrer:
		if _, ok := r.Resolve(v); !ok {
			return ResolveError{
				Kind:    "UnresolvedReferrer",
				Message: fmt.Sprintf("%s %q does not resolve to any declaration in this AML file", v.Category, v.Name),
			}
		}
	case *Struct:
		for _, m := range v.Members {
			if err := walkMember(r, m); err != nil {
				return err
			}
		}
	case *TaggedStruct:
		seen := make(map[string]struct{}, len(v.Members))
		for _, m := range v.Members {
			tag := m.Tag()
			if _, dup := seen[tag]; dup {
				return ResolveError{
					Kind:    "DuplicateTag",
					Message: fmt.Sprintf("taggedstruct %q declares tag %q more than once", v.Name, tag),
				}
			}
			seen[tag] = struct{}{}
			if m.Definition != nil && m.Definition.Member != nil {
				if err := walkMember(r, *m.Definition.Member); err != nil {
					return err
				}
			}
			if m.Block != nil {
				if err := walkBlock(r, m.Block); err != nil {
					return err
				}
			}
		}
	case *TaggedUnion:
		seen := make(map[string]struct{}, len(v.Members))
		for _, m := range v.Members {
			tag := m.TagOrBlockTag()
			if _, dup := seen[tag]; dup {
				return ResolveError{
					Kind:    "DuplicateTag",
					Message: fmt.Sprintf("taggedunion %q declares tag %q more than once", v.Name, tag),
				}
			}
			seen[tag] = struct{}{}
			if m.Member != nil {
				if err := walkMember(r, *m.Member); err != nil {
					return err
				}
			}
			if m.Block != nil {
				if err := walkBlock(r, m.Block); err != nil {
					return err
				}
			}
		}
	case *Enumeration:
		seen := make(map[string]struct{}, len(v.Enumerators))
		for _, e := range v.Enumerators {
			if _, dup := seen[e.Tag]; dup {
				return ResolveError{
					Kind:    "DuplicateTag",
					Message: fmt.Sprintf("enumeration %q declares tag %q more than once", v.Name, e.Tag),
				}
			}
			seen[e.Tag] = struct{}{}
		}
	case *PredefinedType:
		// leaf; nothing to resolve
	}
	return nil
}

func walkMember(r *Resolver, m Member) error {
	if m.Type != nil {
		if err := walkType(r, m.Type); err != nil {
			return err
		}
	}
	if m.Block != nil {
		if err := walkBlock(r, m.Block); err != nil {
			return err
		}
	}
	return nil
}

func walkBlock(r *Resolver, b *BlockDefinition) error {
	if b.Type == nil {
		return nil
	}
	return walkType(r, b.Type)
}
