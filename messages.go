package tavi

// Rule codes for the built-in field validations. Full messages are
// produced by ErrorCollection, which prefixes the storage-name title,
// so the catalog entries read as sentence tails.
const (
	codeRequired = "required"
	codeChoices  = "not_in_list"
	codeString   = "not_string"
	codeInt      = "not_integer"
	codeFloat    = "not_float"
	codeBool     = "not_boolean"
	codeTime     = "not_datetime"
	codeUUID     = "not_uuid"
	codeEmbedded = "not_embedded"
	codeList     = "not_list"
)

// messageFor fetches the human text for a rule code.
func messageFor(code string) string {
	switch code {
	case codeRequired:
		return "is required"
	case codeChoices:
		return "value must be in list"
	case codeString:
		return "must be a string"
	case codeInt:
		return "must be an integer"
	case codeFloat:
		return "must be a float"
	case codeBool:
		return "must be a boolean"
	case codeTime:
		return "must be a valid date and time"
	case codeUUID:
		return "must be a valid UUID"
	case codeEmbedded:
		return "must be an embedded document"
	case codeList:
		return "must be a list"
	}
	return code
}

// coercionError is the error form returned by FieldType.Coerce; its
// text is what lands in the owner's ErrorCollection on the next
// validity check.
type coercionError string

func (e coercionError) Error() string { return string(e) }

func coerceFailure(code string) error { return coercionError(messageFor(code)) }
