package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentifierStart(t *testing.T) {
	testData := []struct {
		b        byte
		expected bool
	}{
		{b: 'a', expected: true},
		{b: 'Z', expected: true},
		{b: '_', expected: true},
		{b: '0', expected: false},
		{b: '-', expected: false},
		{b: ' ', expected: false},
	}
	for _, data := range testData {
		assert.Equal(t, data.expected, IsIdentifierStart(data.b), string(data.b))
	}
}

func TestIsIdentifierPart(t *testing.T) {
	assert.True(t, IsIdentifierPart('9'))
	assert.True(t, IsIdentifierPart('_'))
	assert.True(t, IsIdentifierPart('q'))
	assert.False(t, IsIdentifierPart('.'))
	assert.False(t, IsIdentifierPart('$'))
}

func TestIsSpace(t *testing.T) {
	for _, b := range []byte{' ', '\t', '\r', '\n'} {
		assert.True(t, IsSpace(b))
	}
	assert.False(t, IsSpace('x'))
	assert.True(t, IsNewLine('\n'))
	assert.False(t, IsNewLine('\r'))
}
