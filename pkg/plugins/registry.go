package plugins

type Type string

const (
	// TypeCMS fetches patterns from the content API.
	TypeCMS Type = "cms"
)
