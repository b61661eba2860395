package submitanswer

import "bfh-qualifier/internal/common/validation"

// GetWebhookResponseSchema describes the registration response. Extra fields
// are tolerated.
func GetWebhookResponseSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"webhook", "accessToken"},
		Properties: map[string]validation.Property{
			"webhook": {
				Type:        "string",
				Description: "URL issued for answer submission",
				MinLength:   validation.IntPtr(1),
			},
			"accessToken": {
				Type:        "string",
				Description: "Token sent in the Authorization header",
				MinLength:   validation.IntPtr(1),
			},
		},
		AdditionalProperties: true,
	}
}
