package looper

// State is the combined play/record mode of an Engine.
type State int

const (
	Idle State = iota
	Playing
	Recording
	PlayingAndRecording
)

func stateOf(playing, recording bool) State {
	switch {
	case playing && recording:
		return PlayingAndRecording
	case playing:
		return Playing
	case recording:
		return Recording
	default:
		return Idle
	}
}

// IsPlaying reports whether the loop is mixed into the output.
func (s State) IsPlaying() bool {
	return s == Playing || s == PlayingAndRecording
}

// IsRecording reports whether input is being captured.
func (s State) IsRecording() bool {
	return s == Recording || s == PlayingAndRecording
}

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Recording:
		return "recording"
	case PlayingAndRecording:
		return "playing+recording"
	default:
		return "unknown"
	}
}
