// internal/workers/application/validate-application/models.go
package validateapplication

import "encoding/json"

type Input struct {
	ApplicationID  string          `json:"applicationId"`
	Shape          string          `json:"shape"`
	Payload        json.RawMessage `json:"payload"`
	ApplicantEmail string          `json:"applicantEmail"`
	ApplicantPhone string          `json:"applicantPhone"`
}

type Output struct {
	IsValid          bool              `json:"isValid"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
