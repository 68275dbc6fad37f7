// Command lintparse drives the statement-level parser over a source
// file (or an inline expression via -e) and prints the diagnostics and
// declaration/use events it finds. It is the CLI driver named in
// SPEC_FULL.md's MODULE LAYOUT: a stand-in for the out-of-scope scope
// analyzer/rule engine, grounded on the teacher's cmd/paserati/main.go
// flag handling.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/adrperez5/lintparse/pkg/diag"
	"github.com/adrperez5/lintparse/pkg/lexer"
	"github.com/adrperez5/lintparse/pkg/parser"
	"github.com/adrperez5/lintparse/pkg/source"
)

func main() {
	exprFlag := flag.String("e", "", "parse the given expression/statement text and exit")
	tsFlag := flag.Bool("ts", false, "parse in TypeScript mode")
	jsxFlag := flag.Bool("jsx", false, "enable JSX syntax")
	dumpEventsFlag := flag.Bool("dump-events", false, "log every declaration/use/scope event as it is visited")
	quietFlag := flag.Bool("quiet", false, "suppress the summary line; print only diagnostics")

	flag.Parse()

	opts := parser.Options{TypeScript: *tsFlag, JSX: *jsxFlag}

	if *exprFlag != "" {
		os.Exit(run("<eval>", source.NewEvalSource(*exprFlag), opts, *dumpEventsFlag, *quietFlag))
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lintparse [-ts] [-jsx] [-dump-events] <file>|- | lintparse -e \"<source>\"")
		os.Exit(64)
	}

	filename := flag.Arg(0)
	if filename == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lintparse: cannot read stdin: %s\n", err)
			os.Exit(70)
		}
		src := source.NewStdinSource(string(content))
		os.Exit(run(src.Name, src, opts, *dumpEventsFlag, *quietFlag))
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lintparse: cannot read %s: %s\n", filename, err)
		os.Exit(70)
	}
	src := source.NewSourceFile(filename, filename, string(content))
	os.Exit(run(filename, src, opts, *dumpEventsFlag, *quietFlag))
}

// run parses src to completion, printing every diagnostic and (if
// requested) every visitor event, and returns the process exit code:
// 0 on a clean parse, 1 if any diagnostic was reported.
func run(name string, src *source.SourceFile, opts parser.Options, dumpEvents, quiet bool) int {
	start := time.Now()

	reporter := &diag.CollectingReporter{}
	l := lexer.New(src, reporter)
	p := parser.New(l, reporter, src, opts)

	var v logEventVisitor
	v.enabled = dumpEvents
	p.ParseModule(&v)

	elapsed := time.Since(start)

	diag.Print(os.Stderr, src, reporter.Diagnostics)

	if !quiet {
		log.Printf("parsed %s in %s: %d declaration(s), %d use(s), %d diagnostic(s)",
			name, elapsed, v.declarations, v.uses, len(reporter.Diagnostics))
	}

	if len(reporter.Diagnostics) > 0 {
		return 1
	}
	return 0
}
