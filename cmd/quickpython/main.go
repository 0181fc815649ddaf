// Command quickpython is the CLI named in spec.md §6: run, compile,
// repl, --help, --version. The repl subcommand's readline/SIGINT
// wiring is grounded directly on mna-starlark-go/repl/repl.go.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/VikingMew/quickpython/internal/compile"
	"github.com/VikingMew/quickpython/internal/compiler"
	"github.com/VikingMew/quickpython/internal/config"
	"github.com/VikingMew/quickpython/internal/parser"
	"github.com/VikingMew/quickpython/quickpython"

	_ "github.com/VikingMew/quickpython/modules/json"
	_ "github.com/VikingMew/quickpython/modules/os"
	_ "github.com/VikingMew/quickpython/modules/re"
)

const version = "0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("quickpython: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "compile":
		cmdCompile(os.Args[2:])
	case "repl":
		cmdRepl(os.Args[2:])
	case "--help", "-h", "help":
		usage()
	case "--version", "-v":
		fmt.Println("quickpython", version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: quickpython <command> [arguments]

commands:
  run PATH            compile and execute a source file
  compile PATH [-o OUT] [-S]
                       compile a source file to .pyq bytecode;
                       -S disassembles instead of writing a file
  repl                 start an interactive read-eval-print loop
  --help               show this message
  --version            show the version number`)
}

func cmdRun(args []string) {
	if len(args) != 1 {
		log.Fatal("run: expected exactly one PATH argument")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	ctx := quickpython.New(config.Default())
	if _, err := ctx.Eval(args[0], string(src)); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func cmdCompile(args []string) {
	var out string
	var disasm bool
	var path string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			i++
			if i >= len(args) {
				log.Fatal("compile: -o requires an argument")
			}
			out = args[i]
		case "-S":
			disasm = true
		default:
			if path != "" {
				log.Fatal("compile: expected exactly one PATH argument")
			}
			path = args[i]
		}
	}
	if path == "" {
		log.Fatal("compile: expected exactly one PATH argument")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("compile: %v", err)
	}
	mod, err := parser.Parse(string(src))
	if err != nil {
		log.Fatalf("compile: %v", err)
	}
	prog, err := compiler.Compile(mod, path)
	if err != nil {
		log.Fatalf("compile: %v", err)
	}
	if disasm {
		fmt.Print(compile.Disassemble(prog.Toplevel))
		return
	}
	data, err := compile.Serialize(prog.Toplevel)
	if err != nil {
		log.Fatalf("compile: %v", err)
	}
	if out == "" {
		out = path + ".pyq"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatalf("compile: %v", err)
	}
}

var interrupted = make(chan os.Signal, 1)

// termWidth is the width truncateForDisplay clips a printed value to;
// 0 means unknown (not a TTY, or the size query failed), in which case
// printing is left unbounded.
var termWidth int

// cmdRepl implements the interactive loop, grounded on
// mna-starlark-go/repl/repl.go: readline prompt, SIGINT cancels a
// per-line context (Eval takes no context, so a running evaluation is
// not interrupted by it), each line is compiled and run as a
// standalone module body so multi-statement input (if/for/def) works
// line-by-line the same way the file-level Eval does.
func cmdRepl(args []string) {
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			termWidth = w
		}
	}

	rl, err := readline.New(">>> ")
	if err != nil {
		printError(err)
		return
	}
	defer rl.Close()

	ctx := quickpython.New(config.Default())
	for {
		if err := replOnce(rl, ctx); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
}

func replOnce(rl *readline.Instance, engine *quickpython.Context) error {
	cancelCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-cancelCtx.Done():
		}
	}()

	line, err := rl.Readline()
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	v, err := engine.Eval("<stdin>", line)
	if err != nil {
		printError(err)
		return nil
	}
	if v != nil && v != quickpython.NoneValue {
		fmt.Println(truncateForDisplay(fmt.Sprint(v)))
	}
	return nil
}

// truncateForDisplay clips s to termWidth bytes, replacing its tail
// with "..." when it is longer. No-op when termWidth is unknown (stdin
// isn't a TTY).
func truncateForDisplay(s string) string {
	if termWidth <= 0 || len(s) <= termWidth {
		return s
	}
	return s[:termWidth-3] + "..."
}

// printError prints err to stderr, or its engine backtrace if it is an
// unhandled evaluation exception, matching the teacher's PrintError.
func printError(err error) {
	if evalErr, ok := err.(*quickpython.EvalError); ok {
		fmt.Fprintln(os.Stderr, evalErr.Error())
		for _, frame := range evalErr.Backtrace() {
			fmt.Fprintln(os.Stderr, "\tin", frame)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
