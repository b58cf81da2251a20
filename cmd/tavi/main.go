package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgan/tavi"
	"github.com/rgan/tavi/codec"
	"github.com/rgan/tavi/schemadef"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "tavi CLI\n\nUsage:\n  tavi validate -schema defs.yaml -type Order [-storage] doc.json\n\nNotes:\n  - The document body may be JSON or YAML (by file extension).\n  - Exit status 1 means the document failed validation.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath string
	var typeName string
	var storage bool
	fs.StringVar(&schemaPath, "schema", "", "YAML document-definition bundle")
	fs.StringVar(&typeName, "type", "", "document type to validate against")
	fs.BoolVar(&storage, "storage", false, "print the storage-keyed projection on success")
	_ = fs.Parse(args)
	if schemaPath == "" || typeName == "" || fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(schemaPath)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	defs, err := schemadef.Load(raw)
	if err != nil {
		fatalf("loading schema: %v", err)
	}
	def := defs[typeName]
	if def == nil {
		fatalf("schema defines no document named %q", typeName)
	}

	docPath := fs.Arg(0)
	body, err := os.ReadFile(docPath)
	if err != nil {
		fatalf("reading document: %v", err)
	}

	var doc *tavi.Document
	var diags []tavi.Diagnostic
	switch strings.ToLower(filepath.Ext(docPath)) {
	case ".yaml", ".yml":
		doc, diags, err = codec.DecodeYAML(def, body)
	default:
		doc, diags, err = codec.DecodeJSON(def, body)
	}
	if err != nil {
		fatalf("decoding document: %v", err)
	}
	for _, dg := range diags {
		fmt.Fprintln(os.Stderr, dg.String())
	}

	if !doc.Valid() {
		for _, msg := range doc.Errors().FullMessages() {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
	if storage {
		out, err := codec.EncodeStorageJSON(doc)
		if err != nil {
			fatalf("encoding: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Println("ok")
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
