// Package validation validates generator inputs.
//
// Struct tags cover per-field rules:
//
//	type Request struct {
//	    Topic string `json:"topic" validate:"required,max=500"`
//	    ParticipantCount int `json:"participant_count" validate:"min=1,max=20"`
//	}
//	err := validation.Validate(req)
//
// The Validator builder covers rules that depend on runtime state:
//
//	v := validation.New().Merge("request", validation.Validate(req))
//	v.Custom(store.Has(req.Language), "target_language", "is not supported")
//	err := v.Err()
//
// Both report INVALID_INPUT AppErrors whose details list the failing fields.
package validation
