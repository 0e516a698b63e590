package annotation

// Record is the state of one annotation attempt. It is created when an
// attempt starts, mutated as the attempt progresses and reset by the next
// attempt. Submitted is a one-shot latch: once a record has been emitted it
// can never be emitted again.
type Record struct {
	ID          string
	Text        string
	Err         string
	Recording   bool
	Recognizing bool
	Submitted   bool
}
