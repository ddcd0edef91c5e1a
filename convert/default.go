package convert

import "github.com/tjson/tjson/schema"

// Default is the package-level TypeConverter implementation: it simply
// forwards to ConvertValues/InferJSON. It exists so the core parser can
// depend on an interface (accept interfaces, return structs) instead of
// importing this package's free functions directly, matching spec §6's
// framing of TypeConverter as an external collaborator the core merely
// consumes.
type Default struct{}

func (Default) ConvertValues(target *schema.Type, lexeme string) (any, error) {
	return ConvertValues(target, lexeme)
}

func (Default) InferJSON(lexeme string) (any, error) {
	return InferJSON(lexeme)
}
