package editor

// SetAutosave turns autosave on or off. Turning it on arms the timer when the
// draft is already dirty.
func (s *Session) SetAutosave(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autosaveEnabled = enabled
	if !enabled {
		s.autosave.Cancel()
		return
	}
	if s.dirty && !s.closed {
		s.autosave.Trigger()
	}
}

// fireAutosave runs when the draft has been quiet for the autosave delay.
// Overlapping autosaves are not prevented.
func (s *Session) fireAutosave() func() {
	if s.closed || !s.dirty || !s.autosaveEnabled {
		return nil
	}
	return func() {
		// failures are logged and reflected in the autosave status
		_, _ = s.Save(s.ctx, true)
	}
}

// setStatusLocked updates the autosave status. Saved and error fall back to
// idle after the reset delay.
func (s *Session) setStatusLocked(status AutosaveStatus) {
	s.status = status
	if s.statusReset != nil {
		s.statusReset.Stop()
		s.statusReset = nil
	}
	if s.closed || (status != AutosaveSaved && status != AutosaveError) {
		return
	}
	var timer Timer
	timer = s.clock.AfterFunc(s.savedResetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.statusReset != timer {
			return
		}
		s.statusReset = nil
		s.status = AutosaveIdle
	})
	s.statusReset = timer
}
