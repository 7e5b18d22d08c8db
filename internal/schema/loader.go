package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed talabat.cue
var talabatCUE []byte

// Load compiles the embedded CUE schema source, validates it against the
// CUE constraints it declares, and decodes it into a DealSchema. It fails
// if the source does not evaluate to a concrete value or declares a schema
// id other than the supported one.
func Load() (*DealSchema, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(talabatCUE, cue.Filename("talabat.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile schema source: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate schema source: %w", err)
	}

	var s DealSchema
	if err := value.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := Require(s.SchemaID); err != nil {
		return nil, fmt.Errorf("schema source: %w", err)
	}
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("schema %s declares no fields", s.SchemaID)
	}
	return &s, nil
}
