package domain

type Capability string

const (
	CapabilityUser      Capability = "USER"
	CapabilityModerator Capability = "MODERATOR"
	CapabilityAdmin     Capability = "ADMIN"
)

func (c Capability) IsStaff() bool {
	return c == CapabilityModerator || c == CapabilityAdmin
}

// Identity is the caller as established by the outer (out of scope) auth layer.
type Identity struct {
	UserID     string
	Capability Capability
}
