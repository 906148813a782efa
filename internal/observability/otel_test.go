package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOtelHeaders(t *testing.T) {
	assert.Nil(t, parseOtelHeaders(""))
	assert.Nil(t, parseOtelHeaders("garbage,=x,y="))
	assert.Equal(t,
		map[string]string{"api-key": "abc", "team": "ops"},
		parseOtelHeaders(" api-key = abc , team=ops,broken"),
	)
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}
