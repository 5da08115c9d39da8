package step

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  command
	}{
		{"", command{verb: verbStep}},
		{"  s ", command{verb: verbStep}},
		{"continue", command{verb: verbContinue}},
		{"b 12", command{verb: verbBreak, line: 12, arg: "12"}},
		{"break x", command{verb: verbUnknown, arg: "break x"}},
		{"b 0", command{verb: verbUnknown, arg: "b 0"}},
		{"w i >= 3", command{verb: verbWhen, arg: "i >= 3"}},
		{"when", command{verb: verbWhen}},
		{"R", command{verb: verbRestart}},
		{"?", command{verb: verbHelp}},
		{"frobnicate", command{verb: verbUnknown, arg: "frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseCommand(tt.input); got != tt.want {
				t.Errorf("parseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
