// Package codegen renders a determinized pattern as Go source, so that a
// fixed pattern can be embedded in a program without compiling it at run
// time.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/edpat/dfa"
)

const dfaPath = "github.com/coregx/edpat/dfa"

// Config holds the configuration for code generation.
type Config struct {
	Package string // package clause of the generated file
	Name    string // exported name of the generated table variable
}

// Generate returns a Go source file declaring snap as a dfa.Snapshot
// variable and a Load function rebuilding the table from it.
func Generate(snap dfa.Snapshot, config Config) ([]byte, error) {
	if !token.IsIdentifier(config.Package) {
		return nil, fmt.Errorf("codegen: invalid package name %q", config.Package)
	}
	if !token.IsIdentifier(config.Name) || !token.IsExported(config.Name) {
		return nil, fmt.Errorf("codegen: invalid table name %q", config.Name)
	}

	f := jen.NewFile(config.Package)
	f.HeaderComment("Code generated by edpat; DO NOT EDIT.")

	f.Commentf("%s is the table of pattern %q.", config.Name, snap.Definition)
	f.Var().Id(config.Name).Op("=").Qual(dfaPath, "Snapshot").Values(jen.Dict{
		jen.Id("Definition"):  jen.Lit(snap.Definition),
		jen.Id("Sections"):    jen.Lit(snap.Sections),
		jen.Id("MiddleStart"): jen.Lit(int(snap.MiddleStart)),
		jen.Id("RightStart"):  jen.Lit(int(snap.RightStart)),
		jen.Id("States"):      states(snap.States),
	})

	load := "Load" + config.Name
	f.Commentf("%s rebuilds the table of %s.", load, config.Name)
	f.Func().Id(load).Params().Params(jen.Op("*").Qual(dfaPath, "Table"), jen.Error()).Block(
		jen.Return(jen.Qual(dfaPath, "FromSnapshot").Call(jen.Id(config.Name))),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("codegen: render: %w", err)
	}
	return buf.Bytes(), nil
}

func states(ss []dfa.StateSnapshot) *jen.Statement {
	items := make([]jen.Code, len(ss))
	for i, s := range ss {
		dict := jen.Dict{}
		if s.Flags != 0 {
			dict[jen.Id("Flags")] = jen.Lit(int(s.Flags))
		}
		if len(s.Transitions) > 0 {
			dict[jen.Id("Transitions")] = transitions(s.Transitions)
		}
		items[i] = jen.Values(dict)
	}
	return jen.Index().Qual(dfaPath, "StateSnapshot").ValuesFunc(func(g *jen.Group) {
		for _, it := range items {
			g.Add(it)
		}
	})
}

func transitions(ts []dfa.TransitionSnapshot) *jen.Statement {
	return jen.Index().Qual(dfaPath, "TransitionSnapshot").ValuesFunc(func(g *jen.Group) {
		for _, tr := range ts {
			dict := jen.Dict{
				jen.Id("Set"):  words(tr.Set),
				jen.Id("Next"): jen.Lit(int(tr.Next)),
			}
			if tr.StartFlag {
				dict[jen.Id("StartFlag")] = jen.True()
			}
			g.Values(dict)
		}
	})
}

func words(ws []uint64) *jen.Statement {
	return jen.Index().Uint64().ValuesFunc(func(g *jen.Group) {
		for _, w := range ws {
			g.Lit(w)
		}
	})
}
