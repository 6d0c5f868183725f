package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Welcome(t *testing.T) {
	data := NewEmailData("User Directory", "ann@example.com",
		WithName("Ann"), WithLoginURL("http://localhost:8080/login"))

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to User Directory!", subject)
	assert.Contains(t, text, "Hello Ann")
	assert.Contains(t, text, "http://localhost:8080/login")
	assert.Contains(t, html, `href="http://localhost:8080/login"`)
}

func TestRender_SubjectsForEveryTemplate(t *testing.T) {
	cases := map[string]string{
		PasswordReset: "Password Reset Request",
		Verification:  "Verify Your Email Address",
	}
	for name, want := range cases {
		subject, _, _, err := Render(name, NewEmailData("", "a@example.com", WithToken("t")))
		require.NoError(t, err, name)
		assert.Equal(t, want, subject)
	}
}

func TestRender_HTMLEscapesUserInput(t *testing.T) {
	_, _, html, err := Render(Welcome, NewEmailData("", "x@example.com", WithName("<script>")))
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRender_Unknown(t *testing.T) {
	_, _, _, err := Render("missing", EmailData{})
	assert.Error(t, err)
}
