// Package os provides the engine's builtin `os` module: getenv,
// listdir, read_file, write_file, exists, backed by the standard
// library's os package, raising an engine Exception (kind io) on
// failure rather than a Go panic, per SPEC_FULL.md §5.3.
package os

import (
	"fmt"
	stdos "os"

	"github.com/VikingMew/quickpython/quickpython"
)

func init() {
	quickpython.RegisterBuiltinModule("os", newModule)
}

func newModule() *quickpython.Module {
	m := quickpython.NewModule("os")
	m.Members["getenv"] = &quickpython.Native{Name: "getenv", Fn: getenv}
	m.Members["listdir"] = &quickpython.Native{Name: "listdir", Fn: listdir}
	m.Members["read_file"] = &quickpython.Native{Name: "read_file", Fn: readFile}
	m.Members["write_file"] = &quickpython.Native{Name: "write_file", Fn: writeFile}
	m.Members["exists"] = &quickpython.Native{Name: "exists", Fn: exists}
	return m
}

func argString(args []quickpython.Value, i int, fname string) (string, *quickpython.Exception) {
	if i >= len(args) {
		return "", quickpython.NewException(quickpython.ExceptionValue, fmt.Sprintf("%s() missing argument %d", fname, i+1))
	}
	s, ok := args[i].(quickpython.String)
	if !ok {
		return "", quickpython.NewException(quickpython.ExceptionType, fmt.Sprintf("%s() argument %d must be a string", fname, i+1))
	}
	return string(s), nil
}

func getenv(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	name, exc := argString(args, 0, "getenv")
	if exc != nil {
		return nil, exc
	}
	v, ok := stdos.LookupEnv(name)
	if !ok {
		return quickpython.NoneValue, nil
	}
	return quickpython.String(v), nil
}

func listdir(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	path, exc := argString(args, 0, "listdir")
	if exc != nil {
		return nil, exc
	}
	entries, err := stdos.ReadDir(path)
	if err != nil {
		return nil, quickpython.NewException(quickpython.ExceptionIO, err.Error())
	}
	out := make([]quickpython.Value, len(entries))
	for i, e := range entries {
		out[i] = quickpython.String(e.Name())
	}
	return quickpython.NewList(out), nil
}

func readFile(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	path, exc := argString(args, 0, "read_file")
	if exc != nil {
		return nil, exc
	}
	data, err := stdos.ReadFile(path)
	if err != nil {
		return nil, quickpython.NewException(quickpython.ExceptionIO, err.Error())
	}
	return quickpython.String(data), nil
}

func writeFile(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	path, exc := argString(args, 0, "write_file")
	if exc != nil {
		return nil, exc
	}
	data, exc := argString(args, 1, "write_file")
	if exc != nil {
		return nil, exc
	}
	if err := stdos.WriteFile(path, []byte(data), 0o644); err != nil {
		return nil, quickpython.NewException(quickpython.ExceptionIO, err.Error())
	}
	return quickpython.NoneValue, nil
}

func exists(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	path, exc := argString(args, 0, "exists")
	if exc != nil {
		return nil, exc
	}
	_, err := stdos.Stat(path)
	return quickpython.Bool(err == nil), nil
}
