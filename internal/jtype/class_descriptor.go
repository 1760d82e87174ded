package jtype

// ClassDescriptor holds the resolved shape of a user-defined class (§3.3).
// Produced by the Resolver; referenced by the AST and the emitter;
// immutable after resolution.
type ClassDescriptor struct {
	Package  string
	Name     string
	Internal string // unique internal (mangled) name

	Base *ClassDescriptor // nil for a class with no explicit base

	Fields          []FieldDescriptor // declared fields, in declaration order
	MandatoryFields map[string]bool   // fields with no default initialiser

	Methods      map[string]*MethodDescriptor
	WrapperOf    map[string]*MethodDescriptor // wrapper form, keyed by method name
	AsyncEntries map[string]*MethodDescriptor // continuation-entry form, async methods only

	Inner []*ClassDescriptor

	AllFieldsDefaulted bool // every declared (incl. inherited) field has a default
}

// FieldDescriptor is one declared field: name, static type, and whether
// it has a default initialiser.
type FieldDescriptor struct {
	Name       string
	Type       Type
	HasDefault bool
}

// MethodDescriptor is a (possibly wrapper/continuation-entry) callable
// descriptor, shared in shape with function declarations (§6.2).
type MethodDescriptor struct {
	Name             string
	Params           []FieldDescriptor
	ReturnType       Type
	IsStatic         bool
	IsAsync          bool
	NeedsLocation    bool
	ImplementingClass  string
	ImplementingMethod string
}

// AllFieldNames returns field names including inherited ones,
// parent-first (§6.2 getAllFieldNames).
func (c *ClassDescriptor) AllFieldNames() []string {
	var names []string
	if c.Base != nil {
		names = append(names, c.Base.AllFieldNames()...)
	}
	for _, f := range c.Fields {
		names = append(names, f.Name)
	}
	return names
}

// AllFieldTypes mirrors AllFieldNames but returns the field descriptors.
func (c *ClassDescriptor) AllFieldTypes() []FieldDescriptor {
	var fields []FieldDescriptor
	if c.Base != nil {
		fields = append(fields, c.Base.AllFieldTypes()...)
	}
	fields = append(fields, c.Fields...)
	return fields
}

// AllMandatoryFields returns the union of mandatory fields across the
// hierarchy.
func (c *ClassDescriptor) AllMandatoryFields() map[string]bool {
	out := map[string]bool{}
	if c.Base != nil {
		for k := range c.Base.AllMandatoryFields() {
			out[k] = true
		}
	}
	for k := range c.MandatoryFields {
		out[k] = true
	}
	return out
}

// GetMethod looks up a method by name, walking up the hierarchy.
func (c *ClassDescriptor) GetMethod(name string) *MethodDescriptor {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Base != nil {
		return c.Base.GetMethod(name)
	}
	return nil
}

// GetInnerClass looks up a nested class declared directly inside c.
func (c *ClassDescriptor) GetInnerClass(name string) *ClassDescriptor {
	for _, ic := range c.Inner {
		if ic.Name == name {
			return ic
		}
	}
	return nil
}

// GetBaseClass returns the immediate base class, or nil.
func (c *ClassDescriptor) GetBaseClass() *ClassDescriptor { return c.Base }

// ToInstance builds the Instance value type denoting an object of c.
func (c *ClassDescriptor) ToInstance() Instance {
	return Instance{ClassName: c.Name, Class: c, InternalName: c.Internal}
}
