package adapter

import (
	"testing"

	"astfind/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

type intent int

const (
	intentCall intent = iota
	intentImport
	intentDef
)

type found struct {
	Capture Capture
	Line    int
	Args    []string
}

var testParser *parser.Parser

func sharedParser(t *testing.T) *parser.Parser {
	t.Helper()
	if testParser == nil {
		loader, err := parser.NewGrammarLoader()
		require.NoError(t, err)
		testParser = parser.NewParser(loader)
	}
	return testParser
}

func collect(t *testing.T, grammar, source string, which intent) []found {
	t.Helper()
	a, ok := Default().Lookup(grammar)
	require.True(t, ok, "no adapter for %s", grammar)

	src := []byte(source)
	tree, err := sharedParser(t).Parse(grammar, src)
	require.NoError(t, err)
	defer tree.Close()

	var out []found
	parser.Walk(tree.RootNode(), func(node *sitter.Node) bool {
		var (
			c  Capture
			ok bool
		)
		switch which {
		case intentCall:
			c, ok = a.Call(node, src)
		case intentImport:
			c, ok = a.Import(node, src)
		case intentDef:
			c, ok = a.Definition(node, src)
		}
		if ok {
			f := found{Capture: c, Line: int(node.StartPosition().Row) + 1}
			if which == intentCall {
				f.Args = a.Arguments(node, src)
			}
			out = append(out, f)
		}
		return true
	})
	return out
}

func captures(fs []found) []Capture {
	out := make([]Capture, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Capture)
	}
	return out
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"csharp", "go", "java", "javascript", "python", "rust", "tsx", "typescript"}, r.Grammars())

	tsx, _ := r.Lookup("tsx")
	assert.Equal(t, "typescript", tsx.Language())
	assert.Error(t, r.Register("go", NewGo()))
	_, ok := r.Lookup("cobol")
	assert.False(t, ok)
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "fmt", unquote(`"fmt"`))
	assert.Equal(t, "x", unquote("`x`"))
	assert.Equal(t, "a'", unquote("a'"))
	assert.Equal(t, `"`, unquote(`"`))
}

func TestGo(t *testing.T) {
	src := `package main

import (
	"fmt"
	str "strings"
)

type Server struct{}
type Handler interface{ Serve() }
type ID int
type Alias = string

const Limit = 10

var global = 1

func (s *Server) Run() {
	fmt.Println(str.ToUpper("x"), len(os.Args))
	helper()
}

func helper() {}
`
	calls := collect(t, "go", src, intentCall)
	require.Len(t, calls, 4)
	assert.Equal(t, Capture{"object": "fmt", "prop": "Println", "callee": "Println"}, calls[0].Capture)
	assert.Equal(t, []string{`str.ToUpper("x")`, "len(os.Args)"}, calls[0].Args)
	assert.Equal(t, Capture{"object": "str", "prop": "ToUpper", "callee": "ToUpper"}, calls[1].Capture)
	assert.Equal(t, Capture{"callee": "len"}, calls[2].Capture)
	assert.Equal(t, Capture{"callee": "helper"}, calls[3].Capture)
	assert.Equal(t, 19, calls[3].Line)

	imports := collect(t, "go", src, intentImport)
	assert.Equal(t, []Capture{{"module": "fmt"}, {"module": "strings"}}, captures(imports))

	defs := collect(t, "go", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "Server", "kind": "struct"},
		{"name": "Handler", "kind": "interface"},
		{"name": "ID", "kind": "type"},
		{"name": "Alias", "kind": "type"},
		{"name": "Limit", "kind": "const"},
		{"name": "global", "kind": "var"},
		{"name": "Run", "kind": "method"},
		{"name": "helper", "kind": "function"},
	}, captures(defs))
}

func TestPython(t *testing.T) {
	src := `import requests
import os.path as osp, sys
from ..pkg import thing
from __future__ import annotations

class Client:
    def get(self, url):
        def inner():
            pass
        return requests.get(url, timeout=5)

def main():
    print(Client().get("u"))
`
	imports := collect(t, "python", src, intentImport)
	assert.Equal(t, []Capture{
		{"module": "requests"},
		{"module": "os.path"},
		{"module": "..pkg"},
		{"module": "__future__"},
	}, captures(imports))

	defs := collect(t, "python", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "Client", "kind": "class"},
		{"name": "get", "kind": "method"},
		{"name": "inner", "kind": "function"},
		{"name": "main", "kind": "function"},
	}, captures(defs))

	calls := collect(t, "python", src, intentCall)
	require.Len(t, calls, 4)
	assert.Equal(t, Capture{"object": "requests", "prop": "get", "attr": "get", "callee": "get"}, calls[0].Capture)
	assert.Equal(t, []string{"url", "timeout=5"}, calls[0].Args)
	assert.Equal(t, Capture{"callee": "print"}, calls[1].Capture)
	assert.Equal(t, Capture{"object": "Client()", "prop": "get", "attr": "get", "callee": "get"}, calls[2].Capture)
	assert.Equal(t, Capture{"callee": "Client"}, calls[3].Capture)
}

func TestJavaScript(t *testing.T) {
	src := `import axios from "axios";
const fs = require('fs');
export { x } from "./x.js";

function main() {
  axios.get(url);
  console.log(x);
  import("./lazy.js");
}

const handler = async () => {};
let plain = 1;

class Widget {
  render() { return h(); }
}
`
	calls := collect(t, "javascript", src, intentCall)
	var got []Capture
	for _, c := range calls {
		got = append(got, c.Capture)
	}
	assert.Equal(t, []Capture{
		{"callee": "require"},
		{"object": "axios", "prop": "get", "callee": "get"},
		{"object": "console", "prop": "log", "callee": "log"},
		{"callee": "import"},
		{"callee": "h"},
	}, got)
	assert.Equal(t, 6, calls[1].Line)

	imports := collect(t, "javascript", src, intentImport)
	assert.Equal(t, []Capture{
		{"module": "axios"},
		{"module": "fs"},
		{"module": "./x.js"},
		{"module": "./lazy.js"},
	}, captures(imports))

	defs := collect(t, "javascript", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "main", "kind": "function"},
		{"name": "handler", "kind": "function"},
		{"name": "Widget", "kind": "class"},
		{"name": "render", "kind": "method"},
	}, captures(defs))
}

func TestTypeScript(t *testing.T) {
	src := `import type { A } from "./types";
interface Shape { area(): number }
type Id = string;
enum Color { Red }
abstract class Base {}
declare function ext(x: number): void;
namespace NS { export const y = 1; }
const area = (s: Shape): number => s.area();
`
	imports := collect(t, "typescript", src, intentImport)
	assert.Equal(t, []Capture{{"module": "./types"}}, captures(imports))

	defs := collect(t, "typescript", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "Shape", "kind": "interface"},
		{"name": "Id", "kind": "type"},
		{"name": "Color", "kind": "enum"},
		{"name": "Base", "kind": "class"},
		{"name": "ext", "kind": "function"},
		{"name": "NS", "kind": "module"},
		{"name": "area", "kind": "function"},
	}, captures(defs))

	calls := collect(t, "typescript", src, intentCall)
	assert.Equal(t, []Capture{{"object": "s", "prop": "area", "callee": "area"}}, captures(calls))
}

func TestTSX(t *testing.T) {
	src := `import React from "react";
export function App() {
  return <div onClick={() => track("click")} />;
}
`
	assert.Equal(t, []Capture{{"module": "react"}}, captures(collect(t, "tsx", src, intentImport)))
	assert.Equal(t, []Capture{{"callee": "track"}}, captures(collect(t, "tsx", src, intentCall)))
	assert.Equal(t, []Capture{{"name": "App", "kind": "function"}}, captures(collect(t, "tsx", src, intentDef)))
}

func TestJava(t *testing.T) {
	src := `import java.util.List;
import java.util.*;
import static org.junit.Assert.assertEquals;

public class Service {
    public Service() {}
    void run() {
        System.out.println("x");
        helper(1, 2);
    }
    interface Cb {}
    enum Mode { A }
    record Pair(int a, int b) {}
    @interface Marker {}
}
`
	imports := collect(t, "java", src, intentImport)
	assert.Equal(t, []Capture{
		{"module": "java.util.List"},
		{"module": "java.util"},
		{"module": "org.junit.Assert.assertEquals"},
	}, captures(imports))

	calls := collect(t, "java", src, intentCall)
	require.Len(t, calls, 2)
	assert.Equal(t, Capture{"object": "System.out", "prop": "println", "callee": "println"}, calls[0].Capture)
	assert.Equal(t, Capture{"callee": "helper"}, calls[1].Capture)
	assert.Equal(t, []string{"1", "2"}, calls[1].Args)

	defs := collect(t, "java", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "Service", "kind": "class"},
		{"name": "Service", "kind": "constructor"},
		{"name": "run", "kind": "method"},
		{"name": "Cb", "kind": "interface"},
		{"name": "Mode", "kind": "enum"},
		{"name": "Pair", "kind": "record"},
		{"name": "Marker", "kind": "annotation"},
	}, captures(defs))
}

func TestCSharp(t *testing.T) {
	src := `using System;
using IO = System.IO;

namespace App {
    public class Program {
        public Program() {}
        static void Main() {
            Console.WriteLine("hi");
            Run<int>();
            var x = Get();
            void Local() {}
        }
    }
    struct Point {}
    interface IShape {}
    enum Kind { A }
    record Person(string Name);
}
`
	imports := collect(t, "csharp", src, intentImport)
	assert.Equal(t, []Capture{{"module": "System"}, {"module": "System.IO"}}, captures(imports))

	calls := collect(t, "csharp", src, intentCall)
	assert.Equal(t, []Capture{
		{"object": "Console", "prop": "WriteLine", "callee": "WriteLine"},
		{"callee": "Run"},
		{"callee": "Get"},
	}, captures(calls))

	defs := collect(t, "csharp", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "App", "kind": "module"},
		{"name": "Program", "kind": "class"},
		{"name": "Program", "kind": "constructor"},
		{"name": "Main", "kind": "method"},
		{"name": "Local", "kind": "function"},
		{"name": "Point", "kind": "struct"},
		{"name": "IShape", "kind": "interface"},
		{"name": "Kind", "kind": "enum"},
		{"name": "Person", "kind": "record"},
	}, captures(defs))
}

func TestRust(t *testing.T) {
	src := `use std::collections::HashMap;
extern crate serde;

struct Point { x: i32 }
enum Shape { Circle }
trait Area { fn area(&self) -> f64; }
type Map = HashMap<String, i32>;
const MAX: u32 = 1;
static NAME: &str = "x";
mod util {}

impl Point {
    fn new() -> Self { Point { x: 0 } }
}

fn main() {
    let v = Vec::new();
    v.push(1);
    println!("{}", helper());
    parse::<i32>("1");
}
`
	imports := collect(t, "rust", src, intentImport)
	assert.Equal(t, []Capture{{"module": "std::collections::HashMap"}, {"module": "serde"}}, captures(imports))

	defs := collect(t, "rust", src, intentDef)
	assert.Equal(t, []Capture{
		{"name": "Point", "kind": "struct"},
		{"name": "Shape", "kind": "enum"},
		{"name": "Area", "kind": "trait"},
		{"name": "area", "kind": "method"},
		{"name": "Map", "kind": "type"},
		{"name": "MAX", "kind": "const"},
		{"name": "NAME", "kind": "var"},
		{"name": "util", "kind": "module"},
		{"name": "new", "kind": "method"},
		{"name": "main", "kind": "function"},
	}, captures(defs))

	calls := collect(t, "rust", src, intentCall)
	var names []string
	for _, c := range calls {
		names = append(names, c.Capture[SlotCallee])
	}
	assert.Equal(t, []string{"new", "push", "println", "parse"}, names)
	assert.Equal(t, "Vec", calls[0].Capture[SlotObject])
	assert.Empty(t, calls[0].Capture[SlotProp])
	assert.Equal(t, Capture{"object": "v", "prop": "push", "callee": "push"}, calls[1].Capture)
	assert.Nil(t, calls[2].Args)
}
