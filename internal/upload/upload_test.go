package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFilenameSanitizes(t *testing.T) {
	name, err := SafeFilename("my tire photo (1).jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_my_tire_photo__1_.jpg"), "got %q", name)
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "(")
}

func TestSafeFilenameStripsPathComponents(t *testing.T) {
	for _, in := range []string{
		"../../etc/passwd.png",
		"/var/www/shell.png",
		`..\..\windows\evil.png`,
	} {
		name, err := SafeFilename(in)
		require.NoError(t, err, "input %q", in)
		assert.NotContains(t, name, "/", "input %q", in)
		assert.NotContains(t, name, `\`, "input %q", in)
		assert.NotContains(t, name, "..", "input %q", in)
	}
}

func TestSafeFilenameRejectsBadExtensions(t *testing.T) {
	for _, in := range []string{"shell.php", "run.exe", "noext", "double.jpg.sh"} {
		_, err := SafeFilename(in)
		assert.ErrorIs(t, err, ErrExtNotAllowed, "input %q", in)
	}
}

func TestSafeFilenameUppercaseExtension(t *testing.T) {
	name, err := SafeFilename("PHOTO.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"), "extension lowered, got %q", name)
}

func TestSafeFilenameThaiStemFallsBack(t *testing.T) {
	name, err := SafeFilename("ยางรถ.png")
	require.NoError(t, err)
	// every rune maps to underscore, never an empty stem
	assert.Regexp(t, `^\d+_.+\.png$`, name)
}

func TestValidKind(t *testing.T) {
	assert.True(t, ValidKind("tires"))
	assert.True(t, ValidKind("promotions"))
	assert.True(t, ValidKind("avatars"))
	assert.False(t, ValidKind("documents"))
	assert.False(t, ValidKind(""))
}
