package casregistry

// Usage restricts which programs should accept a given backend.
type Usage uint8

const (
	// UsageCLI marks backends usable from short-lived CLI programs.
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks backends usable from long-running daemons
	// (e.g. agent-casgrpcd).
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
