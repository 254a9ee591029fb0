package internal

import "net/url"

// credentialParam is the query parameter every authenticated call carries.
const credentialParam = "token"

// Credential is what authenticated backend calls are made with. The backend
// accepts the user's own ID here; it issues no separate token. All call
// sites go through Apply so that only this file changes if it ever does.
type Credential struct {
	value string
}

// CredentialFromUserID derives the credential for a logged-in user.
func CredentialFromUserID(userID string) Credential {
	return Credential{value: userID}
}

// IsZero reports whether the credential is empty.
func (c Credential) IsZero() bool {
	return c.value == ""
}

// Value is the raw form, used only for persisting under the token key.
func (c Credential) Value() string {
	return c.value
}

// Apply adds the credential to a request query.
func (c Credential) Apply(q url.Values) {
	q.Set(credentialParam, c.value)
}

// String redacts the value so credentials never end up in logs.
func (c Credential) String() string {
	if len(c.value) <= 4 {
		return "****"
	}
	return c.value[:4] + "****"
}
