// README: Common identifier type used across modules.
package types

// ID identifies a visitor workspace; it doubles as the owner key for persisted client storage.
type ID string

func (id ID) String() string {
	return string(id)
}
