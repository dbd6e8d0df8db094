package fakeinv

// Runnable is the interface implemented by scheduled tasks.
// The Run method contains the task's logic and is called on the tick loop.
type Runnable interface {
	Run()
}

// TaskFunc adapts a plain function to Runnable.
type TaskFunc func()

// Run calls f.
func (f TaskFunc) Run() {
	f()
}
