package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/christoph2/a2lgo"
)

const helpText = `a2ldump — parse an A2L file and dump its value tree

Usage:
  a2ldump [flags] <file.a2l>

Flags:
`

func usage() {
	fmt.Fprint(flag.CommandLine.Output(), helpText)
	flag.PrintDefaults()
}

func main() {
	includePath := flag.String("include-path", "", "colon/semicolon-separated directories searched for /include files")
	jsonOut := flag.Bool("json", false, "dump the value tree as JSON instead of an indented listing")
	showWarnings := flag.Bool("warnings", true, "print accumulated diagnostics to stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	opts := a2lgo.DefaultOptions()
	if *includePath != "" {
		opts.IncludePath = append(opts.IncludePath, strings.Split(*includePath, string(os.PathListSeparator))...)
	}
	opts.IncludePath = append(opts.IncludePath, a2lgo.IncludePathFromEnv("ASAP_INCLUDE")...)

	doc, err := a2lgo.ParseFile(path, opts)
	if err != nil {
		log.Fatalf("a2ldump: %v", err)
	}
	defer doc.Close()

	if *showWarnings {
		for _, w := range doc.Diagnostics.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
		}
	}

	if *jsonOut {
		if err := doc.WriteJSON(os.Stdout); err != nil {
			log.Fatalf("a2ldump: encoding JSON: %v", err)
		}
		return
	}

	dumpContainer(os.Stdout, doc.Root, 0)
}

func dumpContainer(w *os.File, c *a2lgo.ValueContainer, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%s\n", indent, c.Name)
	for _, p := range c.Parameters {
		fmt.Fprintf(w, "%s  %s = %s\n", indent, p.Name, p.Value.String())
	}
	for _, row := range c.RepeatedValues {
		fmt.Fprintf(w, "%s  -", indent)
		for _, v := range row {
			fmt.Fprintf(w, " %s", v.String())
		}
		fmt.Fprintln(w)
	}
	if len(c.IfData) > 0 {
		fmt.Fprintf(w, "%s  IF_DATA: %d bytes raw\n", indent, len(c.IfData))
	}
	for _, child := range c.Children {
		dumpContainer(w, child, depth+1)
	}
}
