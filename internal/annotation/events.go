package annotation

// Listener receives the engine's state change events. It is the whole surface
// a UI shell needs: the engine knows nothing about any particular toolkit.
// Callbacks run on the engine's event loop goroutine and must not block.
type Listener interface {
	// OnLevel reports the current input volume, normalized 0.0-1.0.
	OnLevel(level float64)
	// OnRecordingChanged reports recording starting or ending.
	OnRecordingChanged(recording bool)
	// OnRecognizingChanged reports recognition starting or ending.
	OnRecognizingChanged(recognizing bool)
	// OnTextChanged reports the current annotation text.
	OnTextChanged(text string)
	// OnError reports a user-visible error message.
	OnError(message string)
	// OnAnnotation delivers the finalized record, exactly once per attempt.
	OnAnnotation(rec Record)
}

// NopListener implements Listener with no-ops, for embedding.
type NopListener struct{}

func (NopListener) OnLevel(float64)            {}
func (NopListener) OnRecordingChanged(bool)    {}
func (NopListener) OnRecognizingChanged(bool)  {}
func (NopListener) OnTextChanged(string)       {}
func (NopListener) OnError(string)             {}
func (NopListener) OnAnnotation(Record)        {}
