package trace

import (
	"strings"

	"github.com/ardnew/jsviz/lang"
)

// Kind names an instrumentation event.
type Kind string

const (
	KindCheckpoint Kind = "checkpoint"
	KindDeclare    Kind = "declare"
	KindWrite      Kind = "write"
	KindRead       Kind = "read"
	KindResult     Kind = "result"
	KindEnter      Kind = "enter"
	KindExit       Kind = "exit"
	KindReturn     Kind = "return"
	KindDocument   Kind = "document"
	KindConsole    Kind = "console"
)

// Event is one recorded host notification. Values are rendered the way a
// memory panel would show them.
type Event struct {
	Seq     int    `json:"seq"               yaml:"seq"`
	Kind    Kind   `json:"kind"              yaml:"kind"`
	Line    int    `json:"line,omitempty"    yaml:"line,omitempty"`
	Calls   []int  `json:"calls,omitempty"   yaml:"calls,omitempty"`
	Frame   string `json:"frame,omitempty"   yaml:"frame,omitempty"`
	Name    string `json:"name,omitempty"    yaml:"name,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Value   string `json:"value,omitempty"   yaml:"value,omitempty"`
	Index   *int   `json:"index,omitempty"   yaml:"index,omitempty"`
	Tokens  []int  `json:"tokens,omitempty"  yaml:"tokens,omitempty"`
	Source  []int  `json:"source,omitempty"  yaml:"source,omitempty"`
}

// FramePath renders the display path of env, such as "global/add".
func FramePath(env *lang.Env) string {
	if env == nil {
		return ""
	}

	return strings.Join(env.DisplayPath(), "/")
}

// ConsoleText renders console arguments the way console.log prints them.
func ConsoleText(values []lang.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = lang.Inspect(v)
	}

	return strings.Join(parts, " ")
}
