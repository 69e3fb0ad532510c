package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/TheGreatWaves/golox"
)

func main() {
	path := flag.String("path", "", "source file to run; a REPL starts when omitted")
	flag.Parse()

	vm := golox.New()
	if *path != "" {
		os.Exit(runFile(vm, *path))
	}
	os.Exit(runRepl(vm))
}

func runFile(vm *golox.VM, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file '%s': %s\n", path, err)
		return 74
	}

	switch err := vm.Interpret(source); {
	case errors.Is(err, golox.ErrInterpretCompileError):
		return 65
	case errors.Is(err, golox.ErrInterpretRuntimeError):
		return 70
	}
	return 0
}

func runRepl(vm *golox.VM) int {
	in := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for in.Scan() {
		// Errors are already on stderr; keep the session alive.
		_ = vm.Interpret([]byte(in.Text()))
		fmt.Print("> ")
	}
	fmt.Println()
	return 0
}
