package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosString(t *testing.T) {
	tests := []struct {
		name string
		pos  Pos
		want string
	}{
		{"with filename", NewPos("basic.p4", 10, 5), "basic.p4:10:5"},
		{"without filename", NewPos("", 10, 5), "10:5"},
		{"line 1 col 1", NewPos("main.p4", 1, 1), "main.p4:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.String())
		})
	}
}

func TestPosIsValid(t *testing.T) {
	assert.False(t, Pos{}.IsValid())
	assert.True(t, NewPos("", 1, 1).IsValid())
	assert.False(t, NewPos("x.p4", 0, 3).IsValid())
}

func TestPosAccessors(t *testing.T) {
	p := NewPos("x.p4", 7, 12)
	assert.Equal(t, "x.p4", p.Filename())
	assert.Equal(t, uint32(7), p.Line())
	assert.Equal(t, uint32(12), p.Col())
}

func TestPosBefore(t *testing.T) {
	a := NewPos("", 2, 5)
	b := NewPos("", 2, 9)
	c := NewPos("", 3, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, c.Before(a))
	assert.False(t, a.Before(a))
}
