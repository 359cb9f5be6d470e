// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import "strings"

// stringList is a repeatable flag. The first use replaces the default values
// and an empty value clears the list.
type stringList struct {
	Values   *[]string
	modified bool
}

func (l *stringList) String() string {
	if l.Values == nil {
		return ""
	}

	return strings.Join(*l.Values, ",")
}

func (l *stringList) Set(s string) error {
	if !l.modified || s == "" {
		*l.Values = []string{}
		l.modified = true
	}

	if s != "" {
		*l.Values = append(*l.Values, s)
	}

	return nil
}
