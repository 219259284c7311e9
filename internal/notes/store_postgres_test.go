// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestEscapeLikePattern verifies user queries reach ILIKE as literal text, so
percent signs and underscores never act as wildcards.
*/
func TestEscapeLikePattern(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain text untouched", input: "grocery list", expected: "grocery list"},
		{name: "Percent escaped", input: "100% done", expected: `100\% done`},
		{name: "Underscore escaped", input: "snake_case", expected: `snake\_case`},
		{name: "Backslash escaped first", input: `C:\notes`, expected: `C:\\notes`},
		{name: "Mixed metacharacters", input: `\%_`, expected: `\\\%\_`},
		{name: "Empty query", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, escapeLikePattern(testCase.input))
		})
	}
}
