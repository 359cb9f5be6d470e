// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys_test

import (
	"testing"

	"github.com/aibor/sandboxvm/internal/sys"
	"github.com/stretchr/testify/assert"
)

func TestExecErrorIs(t *testing.T) {
	//nolint:testifylint
	assert.ErrorIs(t, error(&sys.ExecError{Err: assert.AnError}), &sys.ExecError{})
	assert.NotErrorIs(t, assert.AnError, &sys.ExecError{})
}

func TestExecErrorMessage(t *testing.T) {
	err := &sys.ExecError{Name: "modinfo", Err: assert.AnError}
	assert.Equal(t, "modinfo: "+assert.AnError.Error(), err.Error())

	err.Stderr = "  not found\n"
	assert.Equal(t, "modinfo: "+assert.AnError.Error()+": not found", err.Error())
}
