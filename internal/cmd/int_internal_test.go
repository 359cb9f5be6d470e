// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitedUintValue_Set(t *testing.T) {
	ptr := func(n uint64) *uint64 {
		return &n
	}

	tests := []struct {
		name        string
		value       limitedUintValue
		input       string
		expected    *uint64
		expectedErr error
	}{
		{
			name:        "empty",
			expectedErr: strconv.ErrSyntax,
		},
		{
			name:        "not a number",
			input:       "dwdfwef",
			expectedErr: strconv.ErrSyntax,
		},
		{
			name:        "signed int",
			input:       "-1",
			expectedErr: strconv.ErrSyntax,
		},
		{
			name:  "zero without limits",
			input: "0",
			value: limitedUintValue{
				Value: ptr(42),
			},
			expected: ptr(0),
		},
		{
			name:  "is min",
			input: "128",
			value: limitedUintValue{
				Value: ptr(0),
				min:   128,
				max:   256,
			},
			expected: ptr(128),
		},
		{
			name:  "is max",
			input: "256",
			value: limitedUintValue{
				Value: ptr(0),
				min:   128,
				max:   256,
			},
			expected: ptr(256),
		},
		{
			name:  "is below",
			input: "127",
			value: limitedUintValue{
				min: 128,
				max: 256,
			},
			expectedErr: ErrValueOutOfRange,
		},
		{
			name:  "is above",
			input: "257",
			value: limitedUintValue{
				min: 128,
				max: 256,
			},
			expectedErr: ErrValueOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.value.Set(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, tt.value.Value)
		})
	}
}

func TestLimitedUintValue_String(t *testing.T) {
	value := uint64(2048)

	assert.Equal(t, "0", (&limitedUintValue{}).String())
	assert.Equal(t, "2048", (&limitedUintValue{Value: &value}).String())
}

func TestStringList(t *testing.T) {
	values := []string{"virtiofs"}
	list := &stringList{Values: &values}

	assert.Equal(t, "virtiofs", list.String())

	require.NoError(t, list.Set("fuse"))
	require.NoError(t, list.Set("drm"))
	assert.Equal(t, []string{"fuse", "drm"}, values)
	assert.Equal(t, "fuse,drm", list.String())

	require.NoError(t, list.Set(""))
	assert.Empty(t, values)
}
