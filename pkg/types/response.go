package types

// Envelope is the wire shape every API response uses: a success flag, a
// human-readable message, and the payload. Errors reuse the same shape with
// success=false and a null payload so clients only parse one structure.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
