package filetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{path: "/p/calc.py", want: Python},
		{path: "/p/test_calc.py", want: Python},
		{path: "/p/types.pyi", want: Python},
		{path: "/p/app.js", want: JavaScript},
		{path: "/p/app.test.ts", want: JavaScript},
		{path: "/p/component.TSX", want: JavaScript},
		{path: "/p/module.mjs", want: JavaScript},
		{path: "/p/main.go", want: Go},
		{path: "/p/README.md", want: Unknown},
		{path: "/p/Makefile", want: Unknown},
		{path: "", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.path))
		})
	}
}

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/p/calculator.test.js", want: true},
		{path: "/p/calculator.spec.ts", want: true},
		{path: "/p/test/helpers.js", want: true},
		{path: "/p/src/__tests__/calc.js", want: true},
		{path: "/p/calculator.js", want: false},
		{path: "/p/test_calculator.py", want: true},
		{path: "/p/calculator_test.py", want: true},
		{path: "/p/calculator.py", want: false},
		{path: "/p/tests/test_api.py", want: true},
		{path: "/p/calc_test.go", want: true},
		{path: "/p/calc.go", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTestFile(tt.path))
		})
	}
}

func TestLanguage_String(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "python", Python.String())
}
