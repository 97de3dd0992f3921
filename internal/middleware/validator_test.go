package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileRef(t *testing.T) {
	assert.NoError(t, ValidateFileRef("deck.pdf"))
	assert.NoError(t, ValidateFileRef("acme/s1/cap-table.xlsx"))

	assert.Error(t, ValidateFileRef(""))
	assert.Error(t, ValidateFileRef("  "))
	assert.Error(t, ValidateFileRef("../../etc/passwd"))
	assert.Error(t, ValidateFileRef("/etc/passwd"))
	assert.Error(t, ValidateFileRef("deck.pdf; rm -rf /"))
	assert.Error(t, ValidateFileRef("deck`whoami`.pdf"))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://app.example.com"))
	assert.NoError(t, ValidateURL("http://app.example.com:8080"))

	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("ftp://app.example.com"))
	assert.Error(t, ValidateURL("https://localhost:3000"))
	assert.Error(t, ValidateURL("https://127.0.0.1"))
	assert.Error(t, ValidateURL("https://192.168.1.10"))
}

func TestValidateTenantAndStartupID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("acme-capital"))
	assert.NoError(t, ValidateStartupID("s_42"))

	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("bad tenant"))
	assert.Error(t, ValidateStartupID("id/with/slash"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(500))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Acme", SanitizeString("  Acme\x00 "))
	assert.Equal(t, "a b", SanitizeString("a\x01 b"))
}
