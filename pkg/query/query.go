// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// IntList parses repeated and comma-separated values into integers. It
// accepts "country_id=1&country_id=2" as well as "country_id=1, 2" and fails
// on the first entry that is not an integer.
func IntList(vals []string) ([]int, error) {
	var res []int
	for _, raw := range vals {
		for _, v := range StringSlice(raw) {
			i, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("query: %q is not an integer", v)
			}
			res = append(res, i)
		}
	}
	return res, nil
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
