package data

func Version() string {
	return "0.3.0"
}

// Mode is the state a managed domain is switched to.
type Mode int

const (
	// ModeDev keeps the override line uncommented so the custom IP wins.
	ModeDev Mode = iota
	// ModeProd comments the override out and lets real DNS answer.
	ModeProd
)

func (m Mode) String() string {
	if m == ModeDev {
		return "DEV"
	}
	return "PROD"
}

// ManagedEntry represents one muko-managed line in hosts
type ManagedEntry struct {
	IP     string `json:"ip"`
	Domain string `json:"domain"`
	Alias  string `json:"alias,omitempty"`
	Active bool   `json:"active"`
	ProdIP string `json:"prodIp,omitempty"` // only resolved for inactive entries
}

func (e ManagedEntry) Mode() Mode {
	if e.Active {
		return ModeDev
	}
	return ModeProd
}

// DisplayAlias returns the alias when it adds information over the domain.
func (e ManagedEntry) DisplayAlias() string {
	if e.Alias == e.Domain {
		return ""
	}
	return e.Alias
}

// Matches reports whether identifier names this entry by domain or alias.
func (e ManagedEntry) Matches(identifier string) bool {
	if e.Domain == identifier {
		return true
	}
	return e.Alias != "" && e.Alias == identifier
}
