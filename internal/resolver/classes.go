package resolver

import (
	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jtype"
)

// resolveClassDecl builds c's ClassDescriptor (field shapes, mandatory
// fields, base-class link, synthesized init/init-missing constructor
// descriptors) and recurses into nested classes and methods. Grounded
// on jtype.ClassDescriptor's shape, which already implements the §6.2
// getAllFieldNames/getAllFieldTypes/getAllMandatoryFields/getMethod/
// getInnerClass/getBaseClass surface the emitter needs.
func (r *Resolver) resolveClassDecl(c *ast.ClassDecl) {
	desc := &jtype.ClassDescriptor{
		Name:            c.Name,
		Internal:        c.Name,
		MandatoryFields: map[string]bool{},
		Methods:         map[string]*jtype.MethodDescriptor{},
		WrapperOf:       map[string]*jtype.MethodDescriptor{},
		AsyncEntries:    map[string]*jtype.MethodDescriptor{},
	}
	c.Descriptor = desc

	if c.ExtendsPath != "" {
		if base, ok := r.classesByName[c.ExtendsPath]; ok {
			if base.Descriptor == nil {
				r.resolveClassDecl(base)
			}
			desc.Base = base.Descriptor
		} else {
			r.errf(c.At, "unknown base class %q", c.ExtendsPath)
		}
	}

	r.pushScope()
	r.pushFunc(-1, nil)
	allDefaulted := true
	for i := range c.Fields {
		fd := &c.Fields[i]
		fd.Decl.DeclaredType = r.resolveTypeExpr(fd.Decl.DeclaredTypeExpr)
		hasDefault := fd.Decl.Init != nil
		if fd.Decl.Init != nil {
			r.resolveExpr(fd.Decl.Init)
		}
		if !hasDefault {
			desc.MandatoryFields[fd.Decl.Name] = true
			allDefaulted = false
		}
		desc.Fields = append(desc.Fields, jtype.FieldDescriptor{
			Name: fd.Decl.Name, Type: fd.Decl.DeclaredType, HasDefault: hasDefault,
		})
		r.declare(fd.Decl.Name, r.varArenaIdx(fd.Decl))
	}
	desc.AllFieldsDefaulted = allDefaulted
	r.popFunc()
	r.popScope()

	r.synthesizeInitMethods(c, desc)

	for _, m := range c.Methods {
		r.resolveFuncDecl(m, c.Name)
	}
	for _, inner := range c.Inner {
		r.resolveClassDecl(inner)
		desc.Inner = append(desc.Inner, inner.Descriptor)
	}
}

// varArenaIdx finds decl's arena index by linear scan. VarDecl doesn't
// carry its own arena index (declaration sites call arena.AddVar purely
// for the side effect of registering the declaration), and per-scope
// declaration counts are small enough that a scan is cheap.
func (r *Resolver) varArenaIdx(decl *ast.VarDecl) int {
	for i := 0; ; i++ {
		v := r.arena.Var(i)
		if v == nil {
			return -1
		}
		if v == decl {
			return i
		}
	}
}

// synthesizeInitMethods registers the two constructor descriptor shapes
// SPEC_FULL §4.D' calls for: a plain `init` that accepts named-arg
// values for every field (defaults applied for the rest), and an
// `init$missing` variant reached when a mandatory field is omitted,
// whose body (emitted later by internal/classgen) raises the "missing
// mandatory field" RuntimeError of §7 rather than constructing the
// instance.
func (r *Resolver) synthesizeInitMethods(c *ast.ClassDecl, desc *jtype.ClassDescriptor) {
	params := make([]jtype.FieldDescriptor, len(desc.Fields))
	copy(params, desc.Fields)
	instanceType := desc.ToInstance()

	desc.Methods["init"] = &jtype.MethodDescriptor{
		Name: "init", Params: params, ReturnType: instanceType,
		ImplementingClass: c.Name, ImplementingMethod: "init",
	}
	if len(desc.MandatoryFields) > 0 {
		desc.Methods["init$missing"] = &jtype.MethodDescriptor{
			Name: "init$missing", Params: params, ReturnType: instanceType,
			ImplementingClass: c.Name, ImplementingMethod: "init$missing",
		}
	}
}
