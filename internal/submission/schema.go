// internal/submission/schema.go
package submission

import (
	_ "embed"
	"encoding/json"
	"fmt"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/validation"
)

var (
	//go:embed schemas/legacy.json
	legacySchemaJSON string
	//go:embed schemas/nested.json
	nestedSchemaJSON string

	schemas = map[Shape]*validation.Schema{
		ShapeLegacy: validation.MustCompile("legacy application", legacySchemaJSON),
		ShapeNested: validation.MustCompile("nested application", nestedSchemaJSON),
	}
)

// CheckPayload validates an assembled body against the contract for shape.
func CheckPayload(shape Shape, raw []byte) (*validation.ValidationResult, error) {
	s, ok := schemas[shape]
	if !ok {
		return nil, apperrors.NewUnsupportedPayloadShapeError(string(shape))
	}
	res, err := s.Validate(json.RawMessage(raw))
	if err != nil {
		return nil, fmt.Errorf("check %s payload: %w", shape, err)
	}
	return res, nil
}

func checkSchema(shape Shape, raw []byte) error {
	res, err := CheckPayload(shape, raw)
	if err != nil {
		return err
	}
	if !res.Valid {
		return apperrors.NewPayloadSchemaViolationError(string(shape), res.GetErrorMessages())
	}
	return nil
}
