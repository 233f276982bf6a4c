package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phobologic/wordstat/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "user", "user"},
		{"snake", "get_user_name", "get_user_name"},
		{"dunder", "__init__", "__init__"},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"none keyword", "null", `"null"`},
		{"integer", "42", `"42"`},
		{"decimal", "1.5", `"1.5"`},
		{"leading zero", "007", `"007"`},
		{"exponent", "1e5", `"1e5"`},
		{"comma", "a,b", `"a,b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"unicode", "naïve", "naïve"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, encodeValue(tt.in))
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	r := &model.Report{
		Summary: model.Summary{Total: 5, Unique: 3},
		Statistics: model.FrequencyTable{
			{Word: "get", Count: 3},
			{Word: "true", Count: 1},
			{Word: "1", Count: 1},
		},
	}

	want := `summary:
  total: 5
  unique: 3
statistics[3]{word,count}:
  get,3
  "true",1
  "1",1`
	assert.Equal(t, want, Encode(r))
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{})
	assert.Equal(t, "summary:\n  total: 0\n  unique: 0\nstatistics[0]{word,count}:", got)
}
