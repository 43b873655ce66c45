package framework

// Action gives the framework something to do in its execution loop.
// Run is invoked once per iteration of Framework.RunWindow.
type Action interface {
	Run() error
}

// Finisher is implemented by actions that can end the run loop early.
// RunWindow checks Done after every frame.
type Finisher interface {
	Done() bool
}

// BaseAction provides the done flag. Embed it to make an action a Finisher.
type BaseAction struct {
	done bool
}

// Finish marks the action complete; the loop stops after the current frame.
func (a *BaseAction) Finish() {
	a.done = true
}

func (a *BaseAction) Done() bool {
	return a.done
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func() error

func (f ActionFunc) Run() error {
	return f()
}
