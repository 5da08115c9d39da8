package step

import (
	"strconv"
	"strings"
)

// verb is a stepper command.
type verb int

const (
	verbStep verb = iota
	verbContinue
	verbBreak
	verbWhen
	verbRestart
	verbEdit
	verbHelp
	verbQuit
	verbUnknown
)

// command is a parsed input line.
type command struct {
	verb verb
	line int
	arg  string
}

var verbs = map[string]verb{
	"s": verbStep, "step": verbStep,
	"c": verbContinue, "continue": verbContinue,
	"b": verbBreak, "break": verbBreak,
	"w": verbWhen, "when": verbWhen,
	"r": verbRestart, "restart": verbRestart,
	"e": verbEdit, "edit": verbEdit,
	"h": verbHelp, "help": verbHelp, "?": verbHelp,
	"q": verbQuit, "quit": verbQuit, "exit": verbQuit,
}

// parseCommand parses an input line. An empty line steps.
func parseCommand(input string) command {
	name, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	rest = strings.TrimSpace(rest)

	if name == "" {
		return command{verb: verbStep}
	}

	v, ok := verbs[strings.ToLower(name)]
	if !ok {
		return command{verb: verbUnknown, arg: name}
	}

	cmd := command{verb: v, arg: rest}

	if v == verbBreak {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return command{verb: verbUnknown, arg: input}
		}

		cmd.line = n
	}

	return cmd
}

func helpMessage() string {
	return `
Commands:

  step      s, Enter   Run to the next statement
  continue  c          Run to the next breakpoint or condition
  break N   b N        Toggle a breakpoint at line N
  when EXPR w EXPR     Break when EXPR holds (empty clears)
  restart   r          Start the program over
  edit      e          Edit the program in $EDITOR and restart
  help      h, ?       Print this help
  quit      q          Exit

Conditions are expressions over the visible bindings, e.g. "i >= 3".
Use Up/Down for command history.
`
}
