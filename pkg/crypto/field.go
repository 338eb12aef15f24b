package crypto

// FieldClass classifies a stored secret field value. Classification
// happens once at read time; consumers switch on the tag instead of
// re-deriving prefix checks at every call site.
type FieldClass int

const (
	// FieldAbsent means no value is stored
	FieldAbsent FieldClass = iota
	// FieldPlaintext means a raw legacy value that still needs encoding
	FieldPlaintext
	// FieldLegacyHash means a bcrypt hash: verifiable, never recoverable
	FieldLegacyHash
	// FieldEncrypted means a reversible ciphertext envelope
	FieldEncrypted
)

// String returns a log-friendly name for the class
func (c FieldClass) String() string {
	switch c {
	case FieldAbsent:
		return "absent"
	case FieldPlaintext:
		return "plaintext"
	case FieldLegacyHash:
		return "legacy_hash"
	case FieldEncrypted:
		return "encrypted"
	}
	return "unknown"
}

// ClassifyField determines the state of a stored secret field value
func ClassifyField(value string) FieldClass {
	switch {
	case value == "":
		return FieldAbsent
	case IsLegacyHash(value):
		return FieldLegacyHash
	case IsEnvelope(value):
		return FieldEncrypted
	default:
		return FieldPlaintext
	}
}
