package main

import (
	"flag"
	"fmt"
	"os"

	"genlower/pkg/ast"
	"genlower/pkg/lower"
	"genlower/pkg/lower/testdata"
	"genlower/pkg/printer"
	"genlower/pkg/source"
)

func main() {
	fmt.Println("--- genlower dump ---")

	fixturePath := flag.String("fixture", "", "path to a .fixture file (required)")
	dumpOps := flag.Bool("dump-ops", false, "trace every recorded opcode to stderr")
	dumpBlocks := flag.Bool("dump-blocks", false, "trace block scope open/close to stderr")
	dumpAssembler := flag.Bool("dump-assembler", false, "trace the finalization pass to stderr")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -fixture <path>\n", os.Args[0])
		os.Exit(1)
	}

	f, err := testdata.Load(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixture %q: %v\n", *fixturePath, err)
		os.Exit(1)
	}

	build, ok := testdata.Registry[f.Program]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown program %q referenced by fixture %q\n", f.Program, *fixturePath)
		os.Exit(1)
	}

	cg := lower.NewCodeGenerator(lower.CodeGeneratorOptions{
		Debug: lower.DebugFlags{
			Ops:       *dumpOps,
			Blocks:    *dumpBlocks,
			Assembler: *dumpAssembler,
		},
	})
	build(cg)

	var fn *ast.FunctionLike
	switch f.Kind {
	case "async":
		fn = cg.BuildAsyncFunction(ast.FunctionExpression, "", "Promise", source.Range{})
	default:
		fn = cg.BuildGeneratorFunction(ast.FunctionExpression, "", source.Range{})
	}

	rendered := printer.Print(fn)

	fmt.Printf("--- Rendered (%s) ---\n", f.Program)
	fmt.Println(rendered)
	fmt.Println("----------------------")

	if f.Expect != "" {
		fmt.Println("--- Expected (from fixture EXPECT section) ---")
		fmt.Println(f.Expect)
		fmt.Println("-----------------------------------------------")
	}

	fmt.Println("Lowering complete.")
}
