package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type noOrganizationError struct{}

func (noOrganizationError) Error() string {
	return "no active organization; run `agentdeck org use <org-id>` or `agentdeck org create --name ...`"
}

func errNoOrganization() error { return noOrganizationError{} }
