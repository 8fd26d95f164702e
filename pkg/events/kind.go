package events

//go:generate go run github.com/dmarkham/enumer -type Kind -transform snake -json -output kind.gen.go

// Kind identifies an impersonation outcome. The zero value is not a valid kind.
type Kind int

const (
	ImpersonationSucceeded Kind = iota + 1
	ImpersonationFailed
)
