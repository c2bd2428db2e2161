// Package abi describes the hosted C runtime surface the x86-64
// backend calls into (printf, puts, fgets, atoi, exit, and the stdin
// symbol), plus the fixed label names the backend's globals section
// declares. It is embedded rather than hand-maintained as Go literals,
// mirroring pkg/jack/stdlib.go's `//go:embed stdlib.json` pattern for
// describing an external ABI the compiler must call into but does not
// itself define.
package abi

import (
	_ "embed"
	"encoding/json"
)

//go:embed runtime.json
var runtimeJSON []byte

// Call describes one external entry point by name and argument count.
type Call struct {
	Name string `json:"name"`
	Argc int    `json:"argc"`
}

// Labels names the fixed .data/.bss symbols the backend emits.
type Labels struct {
	InputBuffer     string `json:"inputBuffer"`
	InputBufferSize int    `json:"inputBufferSize"`
	IntFormat       string `json:"intFormat"`
	IntFormatValue  string `json:"intFormatValue"`
}

// Runtime is the parsed runtime.json descriptor.
type Runtime struct {
	Calls   []Call   `json:"calls"`
	Symbols []string `json:"symbols"`
	Labels  Labels   `json:"labels"`
}

// Default is the runtime ABI this compiler targets, loaded once at
// package init.
var Default Runtime

func init() {
	if err := json.Unmarshal(runtimeJSON, &Default); err != nil {
		panic("abi: malformed runtime.json: " + err.Error())
	}
}

// Arity returns the argument count for a named call, or 0 if unknown.
func (r Runtime) Arity(name string) int {
	for _, c := range r.Calls {
		if c.Name == name {
			return c.Argc
		}
	}
	return 0
}
