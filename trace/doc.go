// Package trace provides [lang.Host] implementations that observe and pace
// an interpreter run.
//
// A [Recorder] captures every instrumentation event as an [Event] and can
// export the sequence as JSON or YAML. It also echoes console output and can
// halt a run when a [Condition] over the visible bindings becomes true.
//
// A [Stepper] turns the blocking checkpoint into a rendezvous between the
// evaluating goroutine and a driver such as a terminal UI:
//
//	s := trace.NewStepper(rec)
//	in := lang.New(lang.WithHost(s))
//
//	done := make(chan error, 1)
//	go func() { done <- in.Run(ctx, src) }()
//
//	for {
//		select {
//		case cp := <-s.Paused():
//			show(cp)
//			s.Step()
//		case err := <-done:
//			return err
//		}
//	}
//
// Conditions are expr-lang expressions evaluated against the bindings
// visible from the paused frame, for example "i >= 3 && total > 10".
package trace
