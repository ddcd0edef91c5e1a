package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tjson/tjson/schema"
)

// yamlField/yamlType mirror a small, hand-written YAML dialect for
// describing a schema.Type from the command line, since spec.md (and the
// schema package it describes) deliberately leaves "how types are
// declared" out of scope (spec §1's collaborator boundary). Only the
// subset of schema.Kind that's useful to exercise from a CLI is exposed;
// REFERENCE/INTERSECTION aren't since there is no notion of a named type
// registry here.
type yamlType struct {
	Kind           string      `yaml:"kind"`
	Elem           *yamlType   `yaml:"elem,omitempty"`
	Fields         []yamlField `yaml:"fields,omitempty"`
	Sealed         bool        `yaml:"sealed,omitempty"`
	Package        string      `yaml:"package,omitempty"`
	Name           string      `yaml:"name,omitempty"`
	ArrayElem      *yamlType   `yaml:"arrayElem,omitempty"`
	ArraySize      int         `yaml:"arraySize,omitempty"`
	Closed         bool        `yaml:"closed,omitempty"`
	HasFillerValue bool        `yaml:"hasFillerValue,omitempty"`
	TupleElems     []*yamlType `yaml:"tupleElems,omitempty"`
	Members        []*yamlType `yaml:"members,omitempty"`
}

type yamlField struct {
	Name     string    `yaml:"name"`
	Type     *yamlType `yaml:"type"`
	Required bool      `yaml:"required,omitempty"`
}

func loadSchema(path string) (*schema.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	var yt yamlType
	if err := yaml.Unmarshal(data, &yt); err != nil {
		return nil, fmt.Errorf("parsing schema YAML: %w", err)
	}
	return yt.toSchemaType()
}

func (yt *yamlType) toSchemaType() (*schema.Type, error) {
	if yt == nil {
		return &schema.Type{Kind: schema.JSON}, nil
	}
	switch yt.Kind {
	case "int", "":
		return &schema.Type{Kind: schema.Int}, nil
	case "int8":
		return &schema.Type{Kind: schema.Signed8}, nil
	case "int16":
		return &schema.Type{Kind: schema.Signed16}, nil
	case "int32":
		return &schema.Type{Kind: schema.Signed32}, nil
	case "uint8", "byte":
		return &schema.Type{Kind: schema.Unsigned8}, nil
	case "uint16":
		return &schema.Type{Kind: schema.Unsigned16}, nil
	case "uint32":
		return &schema.Type{Kind: schema.Unsigned32}, nil
	case "float":
		return &schema.Type{Kind: schema.Float}, nil
	case "decimal":
		return &schema.Type{Kind: schema.Decimal}, nil
	case "string":
		return &schema.Type{Kind: schema.String}, nil
	case "boolean", "bool":
		return &schema.Type{Kind: schema.Boolean}, nil
	case "null":
		return &schema.Type{Kind: schema.Null}, nil
	case "json":
		return &schema.Type{Kind: schema.JSON}, nil
	case "map":
		elem, err := yt.Elem.toSchemaType()
		if err != nil {
			return nil, err
		}
		return &schema.Type{Kind: schema.Map, Elem: elem}, nil
	case "record":
		fields := make([]schema.Field, 0, len(yt.Fields))
		for _, f := range yt.Fields {
			ft, err := f.Type.toSchemaType()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			fields = append(fields, schema.Field{Name: f.Name, Type: ft, Required: f.Required})
		}
		return &schema.Type{
			Kind: schema.Record, Fields: fields,
			Sealed: yt.Sealed, Package: yt.Package, Name: yt.Name,
		}, nil
	case "array":
		elem, err := yt.ArrayElem.toSchemaType()
		if err != nil {
			return nil, err
		}
		state := schema.Open
		if yt.Closed {
			state = schema.Closed
		}
		return &schema.Type{
			Kind: schema.Array, ArrayElem: elem, ArraySize: yt.ArraySize,
			ArrayState: state, HasFillerValue: yt.HasFillerValue,
		}, nil
	case "tuple":
		elems := make([]*schema.Type, 0, len(yt.TupleElems))
		for i, e := range yt.TupleElems {
			et, err := e.toSchemaType()
			if err != nil {
				return nil, fmt.Errorf("tuple element %d: %w", i, err)
			}
			elems = append(elems, et)
		}
		return &schema.Type{Kind: schema.Tuple, TupleElems: elems}, nil
	case "union":
		members := make([]*schema.Type, 0, len(yt.Members))
		for i, m := range yt.Members {
			mt, err := m.toSchemaType()
			if err != nil {
				return nil, fmt.Errorf("union member %d: %w", i, err)
			}
			members = append(members, mt)
		}
		return &schema.Type{Kind: schema.Union, Members: members}, nil
	default:
		return nil, fmt.Errorf("unrecognised schema kind %q", yt.Kind)
	}
}
