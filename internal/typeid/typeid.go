package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixDocument = "doc"
	PrefixSnapshot = "snap"
	PrefixNode     = "node"
	PrefixSession  = "sess"
	PrefixCommand  = "cmd"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewDocumentID() string { return New(PrefixDocument) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewNodeID() string     { return New(PrefixNode) }
func NewSessionID() string  { return New(PrefixSession) }
func NewCommandID() string  { return New(PrefixCommand) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
