package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Juan", want: "Juan"},
		{name: "trim", in: "  Juan \t", want: "Juan"},
		{name: "inner spaces", in: "Juan    Pérez", want: "Juan Pérez"},
		{name: "decomposed accent", in: "Jose\u0301", want: "Jos\u00e9"},
		{name: "case kept", in: "jUAN", want: "jUAN"},
		{name: "blank", in: " \n ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("JUAN  pérez"), Key("juan Pérez"))
	assert.NotEqual(t, Key("Juan"), Key("Juana"))
}
