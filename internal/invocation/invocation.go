// Package invocation assembles the command line used to launch a server.
package invocation

import (
	"sort"
	"strings"
)

// Invocation is an executable plus its ordered argument tokens and extra
// environment entries (KEY=VALUE). Treat it as immutable: the builders below
// always return copies.
type Invocation struct {
	Path string
	Args []string
	Env  []string
}

// Java returns the base `java -jar <jar>` invocation.
func Java(javaBin, jar string) Invocation {
	if javaBin == "" {
		javaBin = "java"
	}
	return Invocation{Path: javaBin, Args: []string{"-jar", jar}}
}

// Build appends simple flags as "-key value" pairs and system properties as
// "-Dkey=value" tokens to base. Keys are emitted in sorted order so the same
// input always yields the same command line.
func Build(base Invocation, simpleFlags, systemProperties map[string]string) Invocation {
	out := base.clone()
	for _, k := range sortedKeys(simpleFlags) {
		out.Args = append(out.Args, "-"+k, simpleFlags[k])
	}
	for _, k := range sortedKeys(systemProperties) {
		out.Args = append(out.Args, "-D"+k+"="+systemProperties[k])
	}
	return out
}

// WithEnv returns a copy of inv with env appended as KEY=VALUE entries.
func (inv Invocation) WithEnv(env map[string]string) Invocation {
	out := inv.clone()
	for _, k := range sortedKeys(env) {
		out.Env = append(out.Env, k+"="+env[k])
	}
	return out
}

// Tokens returns the executable followed by its arguments.
func (inv Invocation) Tokens() []string {
	return append([]string{inv.Path}, inv.Args...)
}

func (inv Invocation) String() string {
	return strings.Join(inv.Tokens(), " ")
}

func (inv Invocation) clone() Invocation {
	return Invocation{
		Path: inv.Path,
		Args: append([]string(nil), inv.Args...),
		Env:  append([]string(nil), inv.Env...),
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
