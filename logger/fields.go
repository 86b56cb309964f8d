package logger

// Standard field key constants for structured logging.
const (
	FieldComponent      = "component"
	FieldUsername       = "username"
	FieldOrganization   = "organization"
	FieldClearance      = "clearance"
	FieldClassification = "classification"
	FieldResourceID     = "resource_id"
	FieldField          = "field"
	FieldReason         = "reason"
	FieldKeyID          = "kid"
	FieldOperation      = "operation"
	FieldError          = "error"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Fields("op", "refresh", "kid", kid)
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
