package notary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLog(t *testing.T) {
	l, err := ParseLog([]byte(readSample(t, "notarytool/log-invalid.json")))
	require.NoError(t, err)

	assert.Equal(t, "Invalid", l.Status)
	assert.Equal(t, 4000, l.StatusCode)
	assert.Equal(t, "Rocket.zip", l.ArchiveFilename)
	require.Len(t, l.Issues, 2)
	assert.Nil(t, l.Issues[0].Code)

	errs := l.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "arm64", errs[0].Architecture)

	summary := l.Summary()
	assert.Contains(t, summary, "Archive contains critical validation errors")
	assert.Contains(t, summary, "[error] The executable does not have the hardened runtime enabled.")
}

func TestParseLog_Malformed(t *testing.T) {
	_, err := ParseLog([]byte("not json"))
	require.Error(t, err)
}
